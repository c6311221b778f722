// Package session содержит бизнес-логику планирования тренировок: проверку
// участников и окна допуска, бесконфликтное размещение интервалов, кеширование
// проекций чтения и оповещение встречного сервиса об изменениях.
//
// Границы интервала валидируются через lib/interval, само пересечение с
// расписанием тренера проверяется в SQL под advisory lock, тем же предикатом,
// что и interval.Overlaps.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-scheduler/internal/cache"
	"github.com/magabrotheeeer/gym-scheduler/internal/config"
	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/dates"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/interval"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
	"github.com/magabrotheeeer/gym-scheduler/internal/notifier"
)

// Repository определяет методы хранилища, нужные планировщику тренировок.
type Repository interface {
	// GetMember возвращает клиента по идентификатору.
	GetMember(ctx context.Context, uid string) (*models.Member, error)
	// GetTrainer возвращает тренера по идентификатору.
	GetTrainer(ctx context.Context, uid string) (*models.Trainer, error)
	// GetAssignment возвращает текущее закрепление клиента.
	GetAssignment(ctx context.Context, memberUID string) (*models.Assignment, error)
	// GetSession возвращает тренировку по идентификатору.
	GetSession(ctx context.Context, uid string) (*models.Session, error)
	// CreateSessionGuarded вставляет тренировку с проверкой пересечений
	// под блокировкой тренера, возвращает идентификатор конфликтующей записи.
	CreateSessionGuarded(ctx context.Context, session models.Session) (string, error)
	// UpdateSessionGuarded переносит тренировку, исключая её саму из проверки.
	UpdateSessionGuarded(ctx context.Context, session models.Session) (string, error)
	// RemoveSession удаляет тренировку, возвращает количество удалённых строк.
	RemoveSession(ctx context.Context, uid string) (int, error)
	// ListUpcomingSessions возвращает предстоящие тренировки участника.
	ListUpcomingSessions(ctx context.Context, scope models.PartyScope, partyUID string) ([]*models.Session, error)
	// ListPastSessions возвращает страницу истории тренировок участника.
	ListPastSessions(ctx context.Context, scope models.PartyScope, partyUID string, limit, offset int) ([]*models.Session, error)
	// CountPastSessions подсчитывает прошедшие тренировки участника.
	CountPastSessions(ctx context.Context, scope models.PartyScope, partyUID string) (int, error)
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

// Service реализует планировщик тренировок.
type Service struct {
	repo     Repository
	cache    Cache
	notifier notifier.Notifier
	ttl      config.CacheTTL
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, n notifier.Notifier, ttl config.CacheTTL, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: n,
		ttl:      ttl,
		log:      log,
	}
}

// Add планирует новую тренировку.
//
// Порядок проверок: клиент и тренер существуют, клиент закреплён именно за
// этим тренером, окно допуска покрывает дату начала, интервал не пересекается
// с расписанием тренера. Любой отказ происходит до записи.
func (s *Service) Add(ctx context.Context, req models.DummyAddSession) (*models.SessionSummary, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	iv, err := interval.FromDuration(start, time.Duration(req.DurationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetMember(ctx, req.MemberUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrMemberNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetTrainer(ctx, req.TrainerUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrTrainerNotFound
		}
		return nil, err
	}
	if err := s.checkEligibility(ctx, req.MemberUID, req.TrainerUID, iv.Start); err != nil {
		return nil, err
	}

	session := models.Session{
		UID:        models.SessionUID(req.MemberUID, req.TrainerUID, iv.Start, iv.End),
		Name:       req.Name,
		MemberUID:  req.MemberUID,
		TrainerUID: req.TrainerUID,
		StartTime:  iv.Start,
		EndTime:    iv.End,
		Status:     models.SessionStatusScheduled,
	}

	conflictUID, err := s.repo.CreateSessionGuarded(ctx, session)
	if err != nil {
		if errors.Is(err, errs.ErrSlotConflict) {
			s.log.Info("slot conflict on add",
				slog.String("trainer_uid", req.TrainerUID),
				slog.String("conflicting_session_uid", conflictUID))
			return nil, errs.ErrSlotConflict
		}
		return nil, err
	}
	s.log.Info("session created", slog.String("session_uid", session.UID))

	s.invalidateScheduleCaches(req.TrainerUID, req.MemberUID)
	s.notifySession(models.EventSessionUpserted, &session)

	summary := models.NewSessionSummary(&session)
	return &summary, nil
}

// Update переносит тренировку на новый интервал.
// Проверка пересечений исключает саму переносимую тренировку, иначе она
// всегда конфликтовала бы со своим прежним интервалом. Прошедшие тренировки
// неизменяемы.
func (s *Service) Update(ctx context.Context, sessionUID string, req models.DummyUpdateSession) (*models.SessionSummary, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	iv, err := interval.FromDuration(start, time.Duration(req.DurationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadOwned(ctx, sessionUID, req.MemberUID, req.TrainerUID)
	if err != nil {
		return nil, err
	}

	updated := models.Session{
		UID:        existing.UID,
		Name:       req.Name,
		MemberUID:  existing.MemberUID,
		TrainerUID: existing.TrainerUID,
		StartTime:  iv.Start,
		EndTime:    iv.End,
		Status:     existing.Status,
	}

	conflictUID, err := s.repo.UpdateSessionGuarded(ctx, updated)
	if err != nil {
		if errors.Is(err, errs.ErrSlotConflict) {
			s.log.Info("slot conflict on update",
				slog.String("session_uid", sessionUID),
				slog.String("conflicting_session_uid", conflictUID))
			return nil, errs.ErrSlotConflict
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	s.log.Info("session rescheduled", slog.String("session_uid", sessionUID))

	s.invalidateScheduleCaches(existing.TrainerUID, existing.MemberUID)
	s.notifySession(models.EventSessionUpserted, &updated)

	summary := models.NewSessionSummary(&updated)
	return &summary, nil
}

// Remove удаляет будущую тренировку.
func (s *Service) Remove(ctx context.Context, sessionUID string, req models.DummyDeleteSession) error {
	existing, err := s.loadOwned(ctx, sessionUID, req.MemberUID, req.TrainerUID)
	if err != nil {
		return err
	}

	count, err := s.repo.RemoveSession(ctx, sessionUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrSessionNotFound
	}
	s.log.Info("session removed", slog.String("session_uid", sessionUID))

	s.invalidateScheduleCaches(existing.TrainerUID, existing.MemberUID)
	s.notifySession(models.EventSessionDeleted, existing)
	return nil
}

// ListUpcoming возвращает предстоящие тренировки участника по возрастанию
// времени начала, через кеш.
func (s *Service) ListUpcoming(ctx context.Context, scope models.PartyScope, partyUID string) ([]models.SessionSummary, error) {
	if err := s.checkPartyExists(ctx, scope, partyUID); err != nil {
		return nil, err
	}

	var cached []models.SessionSummary
	cacheKey := cache.UpcomingSessionsKey(partyUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read upcoming sessions cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	sessions, err := s.repo.ListUpcomingSessions(ctx, scope, partyUID)
	if err != nil {
		return nil, err
	}
	result := toSummaries(sessions)

	if err := s.cache.Set(cacheKey, result, s.ttl.UpcomingSessionsTTL); err != nil {
		s.log.Warn("failed to cache upcoming sessions", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListPast возвращает страницу истории тренировок участника по убыванию
// времени начала, через кеш с ключом, параметризованным страницей.
func (s *Service) ListPast(ctx context.Context, scope models.PartyScope, partyUID string, page, pageSize int) (*models.SessionPage, error) {
	if err := s.checkPartyExists(ctx, scope, partyUID); err != nil {
		return nil, err
	}

	var cached models.SessionPage
	cacheKey := cache.PastSessionsKey(partyUID, page, pageSize)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read past sessions cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sessions, err := s.repo.ListPastSessions(ctx, scope, partyUID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountPastSessions(ctx, scope, partyUID)
	if err != nil {
		return nil, err
	}

	result := &models.SessionPage{
		Items:    toSummaries(sessions),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	if err := s.cache.Set(cacheKey, result, s.ttl.PastSessionsTTL); err != nil {
		s.log.Warn("failed to cache past sessions", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// checkEligibility проверяет, что клиент закреплён за тренером и окно допуска
// покрывает дату начала тренировки. Закрепление читается через кеш.
func (s *Service) checkEligibility(ctx context.Context, memberUID, trainerUID string, start time.Time) error {
	var a *models.Assignment
	cacheKey := cache.AssignmentKey(memberUID)
	found, err := s.cache.Get(cacheKey, &a)
	if err != nil {
		s.log.Warn("failed to read assignment cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		a, err = s.repo.GetAssignment(ctx, memberUID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrAssignmentNotFound
			}
			return err
		}
		if err := s.cache.Set(cacheKey, a, s.ttl.AssignmentTTL); err != nil {
			s.log.Warn("failed to cache assignment", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	if a.TrainerUID != trainerUID {
		return errs.ErrTrainerMismatch
	}
	if dates.Expired(a.EligibilityEnd, start) {
		return errs.ErrAssignmentExpired
	}
	return nil
}

// loadOwned загружает тренировку и проверяет неизменяемость прошлого и владельцев.
// Прошедшая тренировка отклоняется до сверки владельцев.
func (s *Service) loadOwned(ctx context.Context, sessionUID, memberUID, trainerUID string) (*models.Session, error) {
	existing, err := s.repo.GetSession(ctx, sessionUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrSessionNotFound
		}
		return nil, err
	}
	if existing.StartTime.Before(time.Now()) {
		return nil, errs.ErrPastSession
	}
	if existing.MemberUID != memberUID || existing.TrainerUID != trainerUID {
		return nil, errs.ErrOwnershipMismatch
	}
	return existing, nil
}

func (s *Service) checkPartyExists(ctx context.Context, scope models.PartyScope, partyUID string) error {
	if scope == models.ScopeMember {
		if _, err := s.repo.GetMember(ctx, partyUID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrMemberNotFound
			}
			return err
		}
		return nil
	}
	if _, err := s.repo.GetTrainer(ctx, partyUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrTrainerNotFound
		}
		return err
	}
	return nil
}

// invalidateScheduleCaches сбрасывает проекции расписания обоих участников.
// Страницы истории инвалидируются по префиксу: набор вариантов пагинации
// заранее неизвестен.
func (s *Service) invalidateScheduleCaches(trainerUID, memberUID string) {
	for _, key := range []string{
		cache.UpcomingSessionsKey(trainerUID),
		cache.UpcomingSessionsKey(memberUID),
	} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
		}
	}
	for _, prefix := range []string{
		cache.PastSessionsPrefix(trainerUID),
		cache.PastSessionsPrefix(memberUID),
	} {
		if err := s.cache.InvalidateByPrefix(prefix); err != nil {
			s.log.Warn("failed to invalidate cache family", slog.String("prefix", prefix), sl.Err(err))
		}
	}
}

func (s *Service) notifySession(eventType string, session *models.Session) {
	s.notifier.SessionChanged(models.SessionEvent{
		Type:       eventType,
		SessionUID: session.UID,
		Name:       session.Name,
		MemberUID:  session.MemberUID,
		TrainerUID: session.TrainerUID,
		StartTime:  session.StartTime.UTC(),
		EndTime:    session.EndTime.UTC(),
		Status:     session.Status,
		OccurredAt: time.Now().UTC(),
	})
}

func toSummaries(sessions []*models.Session) []models.SessionSummary {
	result := make([]models.SessionSummary, 0, len(sessions))
	for _, item := range sessions {
		result = append(result, models.NewSessionSummary(item))
	}
	return result
}
