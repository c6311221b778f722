// Package listupcoming реализует HTTP-обработчик списка предстоящих тренировок.
//
// Участник и сторона выборки берутся из JWT-контекста: тренер получает своё
// расписание, клиент — своё. Список упорядочен по возрастанию времени начала
// и не пагинируется: тренировки существуют только внутри окна допуска.
package listupcoming

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-scheduler/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-scheduler/internal/http/response"
	libjwt "github.com/magabrotheeeer/gym-scheduler/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Handler управляет HTTP-запросами списка предстоящих тренировок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения расписания.
type Service interface {
	ListUpcoming(ctx context.Context, scope models.PartyScope, partyUID string) ([]models.SessionSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предстоящие тренировки
// @Description Возвращает предстоящие тренировки текущего участника по возрастанию времени начала.
// @Tags Sessions
// @Produce  json
// @Success 200 {object} map[string]any "Список тренировок"
// @Failure 401 {object} response.ErrorResponse "Участник не авторизован"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions/upcoming [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.listupcoming"
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

	sessions, err := h.service.ListUpcoming(r.Context(), scope, partyUID)
	if err != nil {
		log.Error("failed to list upcoming sessions", sl.Err(err))
		w.WriteHeader(response.StatusCode(err))
		render.JSON(w, r, response.BusinessError(err))
		return
	}

	log.Info("upcoming sessions listed", slog.Int("count", len(sessions)))
	render.JSON(w, r, response.OKWithData(sessions))
}
