// Package update реализует HTTP-обработчик переноса тренировки.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Handler управляет HTTP-запросами на перенос тренировок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики переноса тренировки.
type Service interface {
	Update(ctx context.Context, sessionUID string, req models.DummyUpdateSession) (*models.SessionSummary, error)
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
// @Summary Перенести тренировку
// @Description Переносит будущую тренировку на новый интервал, исключая её саму из проверки пересечений.
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор тренировки"
// @Param request body models.DummyUpdateSession true "Новые данные тренировки"
// @Success 200 {object} map[string]any "Сводка обновлённой тренировки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Идентификаторы владельцев не совпадают"
// @Failure 404 {object} response.ErrorResponse "Тренировка не найдена"
// @Failure 409 {object} response.ErrorResponse "Интервал пересекается с другой тренировкой"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или тренировка уже прошла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.update"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionUID := chi.URLParam(r, "id")
	if sessionUID == "" {
		log.Error("missing session id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session id"))
		return
	}

	var req models.DummyUpdateSession
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

	summary, err := h.service.Update(r.Context(), sessionUID, req)
	if err != nil {
		log.Error("failed to update session", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("session updated", slog.String("session_uid", summary.UID))
	render.JSON(w, r, response.OKWithData(summary))
}
