// Package remove реализует HTTP-обработчик удаления будущей тренировки.
package remove

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

// Handler управляет HTTP-запросами на удаление тренировок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики удаления тренировки.
type Service interface {
	Remove(ctx context.Context, sessionUID string, req models.DummyDeleteSession) error
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
// @Summary Удалить тренировку
// @Description Удаляет будущую тренировку после проверки владельцев. Прошедшие тренировки неизменяемы.
// @Tags Sessions
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор тренировки"
// @Param request body models.DummyDeleteSession true "Идентификаторы владельцев"
// @Success 200 {object} map[string]any "Подтверждение удаления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Идентификаторы владельцев не совпадают"
// @Failure 404 {object} response.ErrorResponse "Тренировка не найдена"
// @Failure 422 {object} response.ErrorResponse "Тренировка уже прошла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.remove"
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

	var req models.DummyDeleteSession
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

	if err := h.service.Remove(r.Context(), sessionUID, req); err != nil {
		log.Error("failed to remove session", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("session removed", slog.String("session_uid", sessionUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed_session_uid": sessionUID,
	}))
}
