// Package listpast реализует HTTP-обработчик истории тренировок с пагинацией.
package listpast

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	libjwt "github.com/magabrotheeeer/gym-scheduler/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Значения пагинации по умолчанию.
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler управляет HTTP-запросами истории тренировок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения истории.
type Service interface {
	ListPast(ctx context.Context, scope models.PartyScope, partyUID string, page, pageSize int) (*models.SessionPage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История тренировок
// @Description Возвращает страницу прошедших тренировок текущего участника по убыванию времени начала.
// @Tags Sessions
// @Produce  json
// @Param page query int false "Номер страницы, по умолчанию 1"
// @Param page_size query int false "Размер страницы, по умолчанию 10"
// @Success 200 {object} map[string]any "Страница истории с метаданными пагинации"
// @Failure 401 {object} response.ErrorResponse "Участник не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/past [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.listpast"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	partyUID, ok := r.Context().Value(middlewarectx.PartyUID).(string)
	if !ok || partyUID == "" {
		log.Error("party uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	scope := models.ScopeTrainer
	if role == libjwt.RoleMember {
		scope = models.ScopeMember
	}

	page, pageSize := parsePagination(r)

	result, err := h.service.ListPast(r.Context(), scope, partyUID, page, pageSize)
	if err != nil {
		log.Error("failed to list past sessions", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("past sessions listed",
		slog.Int("page", page),
		slog.Int("count", len(result.Items)))
	render.JSON(w, r, response.OKWithData(result))
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page = defaultPage
	pageSize = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= maxPageSize {
		pageSize = v
	}
	return page, pageSize
}
