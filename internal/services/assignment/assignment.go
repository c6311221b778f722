// Package assignment содержит бизнес-логику закрепления клиентов за тренерами:
// конечный автомат запроса (новое закрепление, продление у того же тренера,
// отказ при действующем закреплении у другого, перезакрепление после истечения).
package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-scheduler/internal/cache"
	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/dates"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/sl"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
	"github.com/magabrotheeeer/gym-scheduler/internal/notifier"
)

// dateLayout формат дат окна допуска в запросах.
const dateLayout = "02-01-2006"

// Repository определяет методы хранилища, нужные конечному автомату закреплений.
type Repository interface {
	// GetMember возвращает клиента по идентификатору.
	GetMember(ctx context.Context, uid string) (*models.Member, error)
	// GetTrainer возвращает тренера по идентификатору.
	GetTrainer(ctx context.Context, uid string) (*models.Trainer, error)
	// GetAssignment возвращает текущее закрепление клиента.
	GetAssignment(ctx context.Context, memberUID string) (*models.Assignment, error)
	// UpsertAssignment записывает закрепление клиента.
	UpsertAssignment(ctx context.Context, a models.Assignment) error
	// RemoveAssignment удаляет закрепление клиента, возвращает количество удалённых строк.
	RemoveAssignment(ctx context.Context, memberUID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует конечный автомат закреплений.
type Service struct {
	repo     Repository
	cache    Cache
	notifier notifier.Notifier
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, n notifier.Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: n,
		log:      log,
	}
}

// Request обрабатывает запрос на закрепление клиента за тренером.
//
// Переходы автомата:
//   - закрепления нет — создать с запрошенной датой окончания;
//   - тот же тренер, срок не истёк — продлить аддитивно: неиспользованный
//     остаток сохраняется, newEnd = existingEnd + (requestedEnd - today);
//   - тот же тренер, срок истёк — отсчёт заново, newEnd = requestedEnd;
//   - другой тренер, срок не истёк — отказ без изменения состояния;
//   - другой тренер, срок истёк — перезакрепление.
func (s *Service) Request(ctx context.Context, req models.DummyAssignmentRequest) (*models.AssignmentSummary, error) {
	requestedEnd, err := time.Parse(dateLayout, req.EligibilityEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid eligibility end date: %w", err)
	}
	now := time.Now()
	if dates.Expired(requestedEnd, now) {
		return nil, errs.ErrPastEligibilityEnd
	}

	if _, err := s.repo.GetMember(ctx, req.MemberUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrMemberNotFound
		}
		return nil, err
	}
	trainer, err := s.repo.GetTrainer(ctx, req.TrainerUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrTrainerNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetAssignment(ctx, req.MemberUID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	newEnd := requestedEnd
	outcome := models.AssignmentCreated

	if existing != nil {
		switch {
		case existing.TrainerUID == req.TrainerUID && !existing.Expired(now):
			newEnd = existing.EligibilityEnd.AddDate(0, 0, dates.DaysUntil(now, requestedEnd))
			outcome = models.AssignmentExtended
		case existing.TrainerUID == req.TrainerUID:
			outcome = models.AssignmentExtended
		case !existing.Expired(now):
			s.log.Info("rejected assignment request: active assignment with another trainer",
				slog.String("member_uid", req.MemberUID),
				slog.String("current_trainer_uid", existing.TrainerUID))
			return nil, errs.ErrAssignmentConflict
		default:
			outcome = models.AssignmentReassigned
		}
	}

	return s.apply(ctx, req.MemberUID, trainer, newEnd, outcome)
}

// Confirm записывает закрепление с переданной датой окончания напрямую.
// Используется административным путём и при подтверждении оплаты внешним
// сервисом, конечный автомат не применяется.
func (s *Service) Confirm(ctx context.Context, req models.DummyAssignmentRequest) (*models.AssignmentSummary, error) {
	eligibilityEnd, err := time.Parse(dateLayout, req.EligibilityEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid eligibility end date: %w", err)
	}

	if _, err := s.repo.GetMember(ctx, req.MemberUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrMemberNotFound
		}
		return nil, err
	}
	trainer, err := s.repo.GetTrainer(ctx, req.TrainerUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrTrainerNotFound
		}
		return nil, err
	}

	return s.apply(ctx, req.MemberUID, trainer, eligibilityEnd, models.AssignmentConfirmed)
}

// Remove снимает закрепление клиента административным путём и оповещает
// встречный сервис об удалении проекции.
func (s *Service) Remove(ctx context.Context, memberUID string) error {
	count, err := s.repo.RemoveAssignment(ctx, memberUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrAssignmentNotFound
	}
	s.log.Info("assignment removed", slog.String("member_uid", memberUID))

	cacheKey := cache.AssignmentKey(memberUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate assignment cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.notifier.AssignmentChanged(models.AssignmentEvent{
		Type:       models.EventAssignmentRemoved,
		MemberUID:  memberUID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// apply записывает закрепление, инвалидирует проекцию «текущий тренер»
// и оповещает встречный сервис. Каждая мутация автомата проходит здесь.
func (s *Service) apply(ctx context.Context, memberUID string, trainer *models.Trainer, end time.Time, outcome string) (*models.AssignmentSummary, error) {
	a := models.Assignment{
		MemberUID:      memberUID,
		TrainerUID:     trainer.UID,
		EligibilityEnd: dates.Day(end),
	}
	if err := s.repo.UpsertAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("assignment written",
		slog.String("member_uid", memberUID),
		slog.String("trainer_uid", trainer.UID),
		slog.String("outcome", outcome))

	cacheKey := cache.AssignmentKey(memberUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate assignment cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.notifier.AssignmentChanged(models.AssignmentEvent{
		Type:           models.EventAssignmentChanged,
		MemberUID:      memberUID,
		TrainerUID:     trainer.UID,
		EligibilityEnd: a.EligibilityEnd,
		OccurredAt:     time.Now().UTC(),
	})

	return &models.AssignmentSummary{
		MemberUID:      memberUID,
		TrainerUID:     trainer.UID,
		TrainerName:    trainer.Name,
		EligibilityEnd: a.EligibilityEnd.Format(dateLayout),
		Outcome:        outcome,
	}, nil
}
