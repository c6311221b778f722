// Package add реализует HTTP-обработчик планирования новой тренировки.
//
// Handler принимает JSON-запрос с участниками, временем начала и длительностью,
// валидирует его, вызывает планировщик и возвращает сводку созданной тренировки.
package add

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

// Handler управляет HTTP-запросами на создание тренировок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики планирования тренировки.
type Service interface {
	Add(ctx context.Context, req models.DummyAddSession) (*models.SessionSummary, error)
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
// @Summary Запланировать тренировку
// @Description Создаёт тренировку клиента с тренером, проверяя окно допуска и пересечения расписания.
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Param request body models.DummyAddSession true "Данные новой тренировки"
// @Success 200 {object} map[string]any "Сводка созданной тренировки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Клиент закреплён за другим тренером"
// @Failure 404 {object} response.ErrorResponse "Клиент или тренер не найден"
// @Failure 409 {object} response.ErrorResponse "Интервал пересекается с другой тренировкой"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или истёкшее окно допуска"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.add"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAddSession
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

	summary, err := h.service.Add(r.Context(), req)
	if err != nil {
		log.Error("failed to add session", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("session added", slog.String("session_uid", summary.UID))
	render.JSON(w, r, response.OKWithData(summary))
}
