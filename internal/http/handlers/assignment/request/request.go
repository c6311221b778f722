// Package request реализует HTTP-обработчик запроса на закрепление клиента
// за тренером.
//
// Handler принимает JSON-запрос с участниками и датой окончания окна допуска,
// валидирует его, прогоняет через конечный автомат закреплений и возвращает
// итог (создано, продлено, перезакреплено) в JSON-формате.
package request

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на закрепление клиентов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики закреплений
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики закрепления.
type Service interface {
	Request(ctx context.Context, req models.DummyAssignmentRequest) (*models.AssignmentSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запросить закрепление за тренером
// @Description Создаёт, продлевает или перезакрепляет клиента за тренером по правилам окна допуска.
// @Tags Assignments
// @Accept  json
// @Produce  json
// @Param request body models.DummyAssignmentRequest true "Данные закрепления"
// @Success 200 {object} map[string]any "Итог обработки закрепления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клиент или тренер не найден"
// @Failure 409 {object} response.ErrorResponse "Действующее закрепление за другим тренером"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /assignments/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.request"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	summary, err := h.service.Request(r.Context(), req)
	if err != nil {
		log.Error("failed to process assignment request", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("assignment request processed",
		slog.String("member_uid", summary.MemberUID),
		slog.String("outcome", summary.Outcome))
	render.JSON(w, r, response.OKWithData(summary))
}
