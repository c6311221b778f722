// Package past реализует HTTP-обработчик истории тренировок клиента
// на зеркальном сервисе.
package past

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Значения пагинации по умолчанию.
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler управляет HTTP-запросами истории тренировок клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения зеркальной истории.
type Service interface {
	ListPast(ctx context.Context, memberUID string, page, pageSize int) (*models.SessionPage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История тренировок клиента
// @Description Возвращает страницу прошедших тренировок клиента из зеркала по убыванию времени начала.
// @Tags Members
// @Produce  json
// @Param id path string true "Идентификатор клиента"
// @Param page query int false "Номер страницы, по умолчанию 1"
// @Param page_size query int false "Размер страницы, по умолчанию 10"
// @Success 200 {object} map[string]any "Страница истории"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id}/sessions/past [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.past"
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

	page := defaultPage
	pageSize := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= maxPageSize {
		pageSize = v
	}

	result, err := h.service.ListPast(r.Context(), memberUID, page, pageSize)
	if err != nil {
		log.Error("failed to list past sessions", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("past sessions listed", slog.Int("page", page), slog.Int("count", len(result.Items)))
	render.JSON(w, r, response.OKWithData(result))
}
