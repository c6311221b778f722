// Package remove реализует HTTP-обработчик административного снятия закрепления.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
)

// Handler управляет HTTP-запросами на снятие закрепления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики снятия закрепления.
type Service interface {
	Remove(ctx context.Context, memberUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Снять закрепление клиента
// @Description Удаляет закрепление клиента за тренером административным путём. Встречный сервис оповещается об удалении проекции.
// @Tags Assignments
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Success 200 {object} map[string]any "Подтверждение снятия"
// @Failure 400 {object} response.ErrorResponse "Отсутствует идентификатор клиента"
// @Failure 404 {object} response.ErrorResponse "Закрепление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /assignments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assignment.remove"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	memberUID := chi.URLParam(r, "id")
	if memberUID == "" {
		log.Error("missing member id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing member id"))
		return
	}

	if err := h.service.Remove(r.Context(), memberUID); err != nil {
		log.Error("failed to remove assignment", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("assignment removed", slog.String("member_uid", memberUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed_member_uid": memberUID,
	}))
}
