// Package currenttrainer реализует HTTP-обработчик проекции «текущий тренер
// клиента» на зеркальном сервисе. Проекция заполняется событиями встречного
// сервиса и читается через кеш с ограниченным временем жизни.
package currenttrainer

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

// Handler управляет HTTP-запросами текущего тренера клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения проекции текущего тренера.
type Service interface {
	CurrentTrainer(ctx context.Context, memberUID string) (*models.AssignmentSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий тренер клиента
// @Description Возвращает проекцию текущего закрепления клиента из зеркала.
// @Tags Members
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Success 200 {object} map[string]any "Текущее закрепление"
// @Failure 404 {object} response.ErrorResponse "Закрепление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id}/trainer [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.currenttrainer"
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

	summary, err := h.service.CurrentTrainer(r.Context(), memberUID)
	if err != nil {
		log.Error("failed to get current trainer", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	render.JSON(w, r, response.OKWithData(summary))
}
