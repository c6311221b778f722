package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

func newScheduledSession(memberUID, trainerUID string, start time.Time, d time.Duration) models.Session {
	end := start.Add(d)
	return models.Session{
		UID:        models.SessionUID(memberUID, trainerUID, start, end),
		Name:       "test session",
		MemberUID:  memberUID,
		TrainerUID: trainerUID,
		StartTime:  start,
		EndTime:    end,
		Status:     models.SessionStatusScheduled,
	}
}

func TestStorage_CreateSessionGuarded(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	tests := []struct {
		name         string
		start        time.Time
		wantConflict bool
		setup        func(t *testing.T, factory *TestDataFactory, memberUID, trainerUID string)
	}{
		{
			name:  "free slot",
			start: base,
			setup: func(_ *testing.T, _ *TestDataFactory, _, _ string) {},
		},
		{
			name:         "overlapping slot rejected",
			start:        base.Add(30 * time.Minute),
			wantConflict: true,
			setup: func(t *testing.T, factory *TestDataFactory, memberUID, trainerUID string) {
				existing := newScheduledSession(memberUID, trainerUID, base, time.Hour)
				factory.CreateSession(t, existing.UID, existing.Name, memberUID, trainerUID,
					existing.StartTime, existing.EndTime, existing.Status)
			},
		},
		{
			name:  "back-to-back slot allowed",
			start: base.Add(time.Hour),
			setup: func(t *testing.T, factory *TestDataFactory, memberUID, trainerUID string) {
				existing := newScheduledSession(memberUID, trainerUID, base, time.Hour)
				factory.CreateSession(t, existing.UID, existing.Name, memberUID, trainerUID,
					existing.StartTime, existing.EndTime, existing.Status)
			},
		},
		{
			name:  "containing interval on another trainer ignored",
			start: base.Add(30 * time.Minute),
			setup: func(t *testing.T, factory *TestDataFactory, memberUID, _ string) {
				otherTrainer := uuid.New().String()
				factory.CreateTrainer(t, otherTrainer, "other trainer")
				existing := newScheduledSession(memberUID, otherTrainer, base, 3*time.Hour)
				factory.CreateSession(t, existing.UID, existing.Name, memberUID, otherTrainer,
					existing.StartTime, existing.EndTime, existing.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			memberUID := uuid.New().String()
			trainerUID := uuid.New().String()
			factory := NewTestDataFactory(storage)
			factory.CreateMember(t, memberUID, "test member", time.Now().AddDate(0, 3, 0))
			factory.CreateTrainer(t, trainerUID, "test trainer")
			tt.setup(t, factory, memberUID, trainerUID)

			session := newScheduledSession(memberUID, trainerUID, tt.start, time.Hour)
			conflictUID, err := storage.CreateSessionGuarded(context.Background(), session)

			verification := NewTestVerification(storage)
			if tt.wantConflict {
				require.ErrorIs(t, err, errs.ErrSlotConflict)
				assert.NotEmpty(t, conflictUID)
				verification.VerifySessionDeleted(t, session.UID)
			} else {
				require.NoError(t, err)
				assert.Empty(t, conflictUID)
				verification.VerifySessionExists(t, session.UID)
			}
		})
	}
}

func TestStorage_UpdateSessionGuarded(t *testing.T) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Hour)

	t.Run("reschedule within own slot does not self-conflict", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		memberUID := uuid.New().String()
		trainerUID := uuid.New().String()
		factory := NewTestDataFactory(storage)
		factory.CreateMember(t, memberUID, "test member", time.Now().AddDate(0, 3, 0))
		factory.CreateTrainer(t, trainerUID, "test trainer")

		session := newScheduledSession(memberUID, trainerUID, base, 2*time.Hour)
		factory.CreateSession(t, session.UID, session.Name, memberUID, trainerUID,
			session.StartTime, session.EndTime, session.Status)

		// сдвиг на полчаса пересекается с прежним интервалом самой тренировки
		session.StartTime = base.Add(30 * time.Minute)
		session.EndTime = session.StartTime.Add(2 * time.Hour)
		_, err := storage.UpdateSessionGuarded(context.Background(), session)
		require.NoError(t, err)

		got, err := storage.GetSession(context.Background(), session.UID)
		require.NoError(t, err)
		assert.True(t, got.StartTime.Equal(session.StartTime))
	})

	t.Run("reschedule into another session conflicts", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		memberUID := uuid.New().String()
		trainerUID := uuid.New().String()
		factory := NewTestDataFactory(storage)
		factory.CreateMember(t, memberUID, "test member", time.Now().AddDate(0, 3, 0))
		factory.CreateTrainer(t, trainerUID, "test trainer")

		blocker := newScheduledSession(memberUID, trainerUID, base, time.Hour)
		factory.CreateSession(t, blocker.UID, blocker.Name, memberUID, trainerUID,
			blocker.StartTime, blocker.EndTime, blocker.Status)
		victim := newScheduledSession(memberUID, trainerUID, base.Add(2*time.Hour), time.Hour)
		factory.CreateSession(t, victim.UID, victim.Name, memberUID, trainerUID,
			victim.StartTime, victim.EndTime, victim.Status)

		victim.StartTime = base.Add(30 * time.Minute)
		victim.EndTime = victim.StartTime.Add(time.Hour)
		conflictUID, err := storage.UpdateSessionGuarded(context.Background(), victim)
		require.ErrorIs(t, err, errs.ErrSlotConflict)
		assert.Equal(t, blocker.UID, conflictUID)
	})
}

func TestStorage_UpsertAssignment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	memberUID := uuid.New().String()
	firstTrainer := uuid.New().String()
	secondTrainer := uuid.New().String()
	factory := NewTestDataFactory(storage)
	factory.CreateMember(t, memberUID, "test member", time.Now().AddDate(0, 3, 0))
	factory.CreateTrainer(t, firstTrainer, "first trainer")
	factory.CreateTrainer(t, secondTrainer, "second trainer")

	ctx := context.Background()
	end := time.Now().UTC().AddDate(0, 1, 0)

	require.NoError(t, storage.UpsertAssignment(ctx, models.Assignment{
		MemberUID:      memberUID,
		TrainerUID:     firstTrainer,
		EligibilityEnd: end,
	}))
	verification := NewTestVerification(storage)
	verification.VerifyAssignmentTrainer(t, memberUID, firstTrainer)

	// повторная запись перезакрепляет клиента, строка остаётся одна
	require.NoError(t, storage.UpsertAssignment(ctx, models.Assignment{
		MemberUID:      memberUID,
		TrainerUID:     secondTrainer,
		EligibilityEnd: end.AddDate(0, 1, 0),
	}))
	verification.VerifyAssignmentTrainer(t, memberUID, secondTrainer)

	got, err := storage.GetAssignment(ctx, memberUID)
	require.NoError(t, err)
	assert.Equal(t, secondTrainer, got.TrainerUID)

	count, err := storage.RemoveAssignment(ctx, memberUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// повторное удаление сообщает, что удалять нечего
	count, err = storage.RemoveAssignment(ctx, memberUID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_ListSessions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	memberUID := uuid.New().String()
	trainerUID := uuid.New().String()
	factory := NewTestDataFactory(storage)
	factory.CreateMember(t, memberUID, "test member", time.Now().AddDate(0, 3, 0))
	factory.CreateTrainer(t, trainerUID, "test trainer")

	now := time.Now().UTC().Truncate(time.Hour)
	past1 := newScheduledSession(memberUID, trainerUID, now.AddDate(0, 0, -2), time.Hour)
	past1.Status = models.SessionStatusCompleted
	past2 := newScheduledSession(memberUID, trainerUID, now.AddDate(0, 0, -1), time.Hour)
	past2.Status = models.SessionStatusCompleted
	future := newScheduledSession(memberUID, trainerUID, now.AddDate(0, 0, 1), time.Hour)

	for _, s := range []models.Session{past1, past2, future} {
		factory.CreateSession(t, s.UID, s.Name, s.MemberUID, s.TrainerUID, s.StartTime, s.EndTime, s.Status)
	}

	ctx := context.Background()

	upcoming, err := storage.ListUpcomingSessions(ctx, models.ScopeTrainer, trainerUID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future.UID, upcoming[0].UID)

	// история по убыванию времени начала
	pastPage, err := storage.ListPastSessions(ctx, models.ScopeMember, memberUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, pastPage, 2)
	assert.Equal(t, past2.UID, pastPage[0].UID)
	assert.Equal(t, past1.UID, pastPage[1].UID)

	total, err := storage.CountPastSessions(ctx, models.ScopeMember, memberUID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestStorage_MirrorIdempotency(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	memberUID := uuid.New().String()
	trainerUID := uuid.New().String()
	ctx := context.Background()

	start := time.Now().UTC().AddDate(0, 0, 2).Truncate(time.Hour)
	session := newScheduledSession(memberUID, trainerUID, start, time.Hour)

	// повторный upsert того же события не создаёт дубликата
	require.NoError(t, storage.UpsertMirrorSession(ctx, session))
	require.NoError(t, storage.UpsertMirrorSession(ctx, session))

	upcoming, err := storage.ListMirrorUpcomingSessions(ctx, memberUID)
	require.NoError(t, err)
	assert.Len(t, upcoming, 1)

	// удаление отсутствующей записи не считается ошибкой
	require.NoError(t, storage.RemoveMirrorSession(ctx, session.UID))
	require.NoError(t, storage.RemoveMirrorSession(ctx, session.UID))

	upcoming, err = storage.ListMirrorUpcomingSessions(ctx, memberUID)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}
