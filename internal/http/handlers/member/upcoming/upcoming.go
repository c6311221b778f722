// Package upcoming реализует HTTP-обработчик предстоящих тренировок клиента
// на зеркальном сервисе.
package upcoming

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Handler управляет HTTP-запросами предстоящих тренировок клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения зеркального расписания.
type Service interface {
	ListUpcoming(ctx context.Context, memberUID string) ([]models.SessionSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предстоящие тренировки клиента
// @Description Возвращает предстоящие тренировки клиента из зеркала по возрастанию времени начала.
// @Tags Members
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Success 200 {object} map[string]any "Список тренировок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id}/sessions/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.upcoming"
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

	sessions, err := h.service.ListUpcoming(r.Context(), memberUID)
	if err != nil {
		log.Error("failed to list upcoming sessions", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("upcoming sessions listed", slog.Int("count", len(sessions)))
	render.JSON(w, r, response.OKWithData(sessions))
}
