// Package mirror содержит логику зеркального сервиса клиентов: идемпотентное
// применение событий встречного сервиса к проекциям и клиентские чтения
// расписания через кеш. Гарантий порядка доставки нет, поэтому каждое событие
// применяется как upsert по детерминированному идентификатору.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-scheduler/internal/cache"
	"github.com/magabrotheeeer/gym-scheduler/internal/config"
	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Repository определяет методы зеркального хранилища.
type Repository interface {
	// UpsertMirrorSession записывает тренировку в зеркало расписания.
	UpsertMirrorSession(ctx context.Context, session models.Session) error
	// RemoveMirrorSession удаляет тренировку из зеркала.
	RemoveMirrorSession(ctx context.Context, uid string) error
	// UpsertMirrorAssignment записывает проекцию текущего тренера.
	UpsertMirrorAssignment(ctx context.Context, a models.Assignment) error
	// RemoveMirrorAssignment удаляет проекцию текущего тренера.
	RemoveMirrorAssignment(ctx context.Context, memberUID string) error
	// GetMirrorAssignment возвращает проекцию текущего тренера клиента.
	GetMirrorAssignment(ctx context.Context, memberUID string) (*models.Assignment, error)
	// ListMirrorUpcomingSessions возвращает предстоящие тренировки клиента.
	ListMirrorUpcomingSessions(ctx context.Context, memberUID string) ([]*models.Session, error)
	// ListMirrorPastSessions возвращает страницу истории тренировок клиента.
	ListMirrorPastSessions(ctx context.Context, memberUID string, limit, offset int) ([]*models.Session, error)
	// CountMirrorPastSessions подсчитывает прошедшие тренировки клиента.
	CountMirrorPastSessions(ctx context.Context, memberUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
	// InvalidateByPrefix удаляет все ключи семейства по префиксу.
	InvalidateByPrefix(prefix string) error
}

// Service реализует зеркальный сервис клиентов.
type Service struct {
	repo  Repository
	cache Cache
	ttl   config.CacheTTL
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, ttl config.CacheTTL, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// HandleSessionEvent применяет событие тренировки к зеркалу.
// Используется как обработчик сообщений очереди member.mirror.sessions.
func (s *Service) HandleSessionEvent(body []byte) error {
	var event models.SessionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode session event: %w", err)
	}

	ctx := context.Background()
	switch event.Type {
	case models.EventSessionDeleted:
		if err := s.repo.RemoveMirrorSession(ctx, event.SessionUID); err != nil {
			return err
		}
	case models.EventSessionUpserted:
		session := models.Session{
			UID:        event.SessionUID,
			Name:       event.Name,
			MemberUID:  event.MemberUID,
			TrainerUID: event.TrainerUID,
			StartTime:  event.StartTime,
			EndTime:    event.EndTime,
			Status:     event.Status,
		}
		if err := s.repo.UpsertMirrorSession(ctx, session); err != nil {
			return err
		}
	default:
		s.log.Warn("unknown session event type", slog.String("type", event.Type))
		return nil
	}
	s.log.Info("session event applied",
		slog.String("type", event.Type),
		slog.String("session_uid", event.SessionUID))

	s.invalidateMemberCaches(event.MemberUID)
	return nil
}

// HandleAssignmentEvent применяет событие закрепления к зеркалу.
// Используется как обработчик сообщений очереди member.mirror.assignments.
func (s *Service) HandleAssignmentEvent(body []byte) error {
	var event models.AssignmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode assignment event: %w", err)
	}

	ctx := context.Background()
	switch event.Type {
	case models.EventAssignmentRemoved:
		if err := s.repo.RemoveMirrorAssignment(ctx, event.MemberUID); err != nil {
			return err
		}
	case models.EventAssignmentChanged:
		a := models.Assignment{
			MemberUID:      event.MemberUID,
			TrainerUID:     event.TrainerUID,
			EligibilityEnd: event.EligibilityEnd,
		}
		if err := s.repo.UpsertMirrorAssignment(ctx, a); err != nil {
			return err
		}
	default:
		s.log.Warn("unknown assignment event type", slog.String("type", event.Type))
		return nil
	}
	s.log.Info("assignment event applied",
		slog.String("type", event.Type),
		slog.String("member_uid", event.MemberUID))

	cacheKey := cache.AssignmentKey(event.MemberUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate assignment cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return nil
}

// CurrentTrainer возвращает проекцию текущего тренера клиента через кеш.
func (s *Service) CurrentTrainer(ctx context.Context, memberUID string) (*models.AssignmentSummary, error) {
	var cached *models.AssignmentSummary
	cacheKey := cache.AssignmentKey(memberUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read assignment cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	a, err := s.repo.GetMirrorAssignment(ctx, memberUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrAssignmentNotFound
		}
		return nil, err
	}

	result := &models.AssignmentSummary{
		MemberUID:      a.MemberUID,
		TrainerUID:     a.TrainerUID,
		EligibilityEnd: a.EligibilityEnd.Format("02-01-2006"),
	}
	if err := s.cache.Set(cacheKey, result, s.ttl.AssignmentTTL); err != nil {
		s.log.Warn("failed to cache assignment", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListUpcoming возвращает предстоящие тренировки клиента из зеркала через кеш.
func (s *Service) ListUpcoming(ctx context.Context, memberUID string) ([]models.SessionSummary, error) {
	var cached []models.SessionSummary
	cacheKey := cache.UpcomingSessionsKey(memberUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read upcoming sessions cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	sessions, err := s.repo.ListMirrorUpcomingSessions(ctx, memberUID)
	if err != nil {
		return nil, err
	}
	result := make([]models.SessionSummary, 0, len(sessions))
	for _, item := range sessions {
		result = append(result, models.NewSessionSummary(item))
	}

	if err := s.cache.Set(cacheKey, result, s.ttl.UpcomingSessionsTTL); err != nil {
		s.log.Warn("failed to cache upcoming sessions", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListPast возвращает страницу истории тренировок клиента из зеркала через кеш.
func (s *Service) ListPast(ctx context.Context, memberUID string, page, pageSize int) (*models.SessionPage, error) {
	var cached models.SessionPage
	cacheKey := cache.PastSessionsKey(memberUID, page, pageSize)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read past sessions cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sessions, err := s.repo.ListMirrorPastSessions(ctx, memberUID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountMirrorPastSessions(ctx, memberUID)
	if err != nil {
		return nil, err
	}

	items := make([]models.SessionSummary, 0, len(sessions))
	for _, item := range sessions {
		items = append(items, models.NewSessionSummary(item))
	}
	result := &models.SessionPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	if err := s.cache.Set(cacheKey, result, s.ttl.PastSessionsTTL); err != nil {
		s.log.Warn("failed to cache past sessions", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// invalidateMemberCaches сбрасывает клиентские проекции расписания.
func (s *Service) invalidateMemberCaches(memberUID string) {
	cacheKey := cache.UpcomingSessionsKey(memberUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	prefix := cache.PastSessionsPrefix(memberUID)
	if err := s.cache.InvalidateByPrefix(prefix); err != nil {
		s.log.Warn("failed to invalidate cache family", slog.String("prefix", prefix), sl.Err(err))
	}
}
