package assignment

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/lib/dates"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetMember(ctx context.Context, uid string) (*models.Member, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *RepoMock) GetTrainer(ctx context.Context, uid string) (*models.Trainer, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}
func (m *RepoMock) GetAssignment(ctx context.Context, memberUID string) (*models.Assignment, error) {
	args := m.Called(ctx, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}
func (m *RepoMock) UpsertAssignment(ctx context.Context, a models.Assignment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *RepoMock) RemoveAssignment(ctx context.Context, memberUID string) (int, error) {
	args := m.Called(ctx, memberUID)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) SessionChanged(event models.SessionEvent) {
	m.Called(event)
}
func (m *NotifierMock) AssignmentChanged(event models.AssignmentEvent) {
	m.Called(event)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	memberUID       = "11111111-1111-1111-1111-111111111111"
	trainerUID      = "22222222-2222-2222-2222-222222222222"
	otherTrainerUID = "33333333-3333-3333-3333-333333333333"
)

const dateFormat = "02-01-2006"

func TestAssignmentService_Request(t *testing.T) {
	now := time.Now().UTC()
	member := &models.Member{UID: memberUID, Name: "Ivan"}
	trainer := &models.Trainer{UID: trainerUID, Name: "Olga"}

	requestedEnd := now.AddDate(0, 1, 0)
	existingEnd := now.AddDate(0, 0, 10)
	// неиспользованный остаток в 10 дней сохраняется поверх запрошенного срока
	wantExtendedEnd := existingEnd.AddDate(0, 0, dates.DaysUntil(now, requestedEnd))

	tests := []struct {
		name        string
		setupMocks  func(r *RepoMock, c *CacheMock, n *NotifierMock)
		req         models.DummyAssignmentRequest
		wantOutcome string
		wantEnd     string
		wantErr     error
	}{
		{
			name: "no assignment creates new",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
				r.On("GetAssignment", mock.Anything, memberUID).Return(nil, sql.ErrNoRows).Once()
				r.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(a models.Assignment) bool {
					return a.MemberUID == memberUID && a.TrainerUID == trainerUID
				})).Return(nil).Once()
				c.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
				n.On("AssignmentChanged", mock.Anything).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantOutcome: models.AssignmentCreated,
		},
		{
			name: "same trainer unexpired extends additively",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
				r.On("GetAssignment", mock.Anything, memberUID).Return(&models.Assignment{
					MemberUID:      memberUID,
					TrainerUID:     trainerUID,
					EligibilityEnd: existingEnd,
				}, nil).Once()
				r.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(a models.Assignment) bool {
					return a.EligibilityEnd.Format(dateFormat) == wantExtendedEnd.Format(dateFormat)
				})).Return(nil).Once()
				c.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
				n.On("AssignmentChanged", mock.Anything).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantOutcome: models.AssignmentExtended,
			wantEnd:     wantExtendedEnd.Format(dateFormat),
		},
		{
			name: "same trainer expired resets baseline",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
				r.On("GetAssignment", mock.Anything, memberUID).Return(&models.Assignment{
					MemberUID:      memberUID,
					TrainerUID:     trainerUID,
					EligibilityEnd: now.AddDate(0, 0, -30),
				}, nil).Once()
				r.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(a models.Assignment) bool {
					return a.EligibilityEnd.Format(dateFormat) == requestedEnd.Format(dateFormat)
				})).Return(nil).Once()
				c.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
				n.On("AssignmentChanged", mock.Anything).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantOutcome: models.AssignmentExtended,
			wantEnd:     requestedEnd.Format(dateFormat),
		},
		{
			name: "active assignment with another trainer rejected",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
				r.On("GetAssignment", mock.Anything, memberUID).Return(&models.Assignment{
					MemberUID:      memberUID,
					TrainerUID:     otherTrainerUID,
					EligibilityEnd: existingEnd,
				}, nil).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantErr: errs.ErrAssignmentConflict,
		},
		{
			name: "expired assignment with another trainer reassigns",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
				r.On("GetAssignment", mock.Anything, memberUID).Return(&models.Assignment{
					MemberUID:      memberUID,
					TrainerUID:     otherTrainerUID,
					EligibilityEnd: now.AddDate(0, 0, -5),
				}, nil).Once()
				r.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(a models.Assignment) bool {
					return a.TrainerUID == trainerUID
				})).Return(nil).Once()
				c.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
				n.On("AssignmentChanged", mock.Anything).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantOutcome: models.AssignmentReassigned,
		},
		{
			name: "unknown member",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(nil, sql.ErrNoRows).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantErr: errs.ErrMemberNotFound,
		},
		{
			name: "unknown trainer",
			setupMocks: func(r *RepoMock, c *CacheMock, n *NotifierMock) {
				r.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
				r.On("GetTrainer", mock.Anything, trainerUID).Return(nil, sql.ErrNoRows).Once()
			},
			req: models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: requestedEnd.Format(dateFormat),
			},
			wantErr: errs.ErrTrainerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cacheMock := new(CacheMock)
			notifierMock := new(NotifierMock)
			svc := New(repo, cacheMock, notifierMock, newNoopLogger())

			tt.setupMocks(repo, cacheMock, notifierMock)

			got, err := svc.Request(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantOutcome, got.Outcome)
				if tt.wantEnd != "" {
					assert.Equal(t, tt.wantEnd, got.EligibilityEnd)
				}
			}

			repo.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
			notifierMock.AssertExpectations(t)
		})
	}
}

func TestAssignmentService_Request_InvalidDates(t *testing.T) {
	tests := []struct {
		name    string
		end     string
		wantErr error
	}{
		{name: "not a date", end: "not-a-date"},
		{
			name:    "date in the past",
			end:     time.Now().UTC().AddDate(0, 0, -1).Format(dateFormat),
			wantErr: errs.ErrPastEligibilityEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, new(CacheMock), new(NotifierMock), newNoopLogger())

			got, err := svc.Request(context.Background(), models.DummyAssignmentRequest{
				MemberUID:      memberUID,
				TrainerUID:     trainerUID,
				EligibilityEnd: tt.end,
			})
			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, got)
			repo.AssertNotCalled(t, "UpsertAssignment", mock.Anything, mock.Anything)
		})
	}
}

func TestAssignmentService_Remove(t *testing.T) {
	t.Run("removes and notifies", func(t *testing.T) {
		repo := new(RepoMock)
		cacheMock := new(CacheMock)
		notifierMock := new(NotifierMock)
		svc := New(repo, cacheMock, notifierMock, newNoopLogger())

		repo.On("RemoveAssignment", mock.Anything, memberUID).Return(1, nil).Once()
		cacheMock.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
		notifierMock.On("AssignmentChanged", mock.MatchedBy(func(e models.AssignmentEvent) bool {
			return e.Type == models.EventAssignmentRemoved && e.MemberUID == memberUID
		})).Once()

		err := svc.Remove(context.Background(), memberUID)
		assert.NoError(t, err)

		repo.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
		notifierMock.AssertExpectations(t)
	})

	t.Run("no assignment to remove", func(t *testing.T) {
		repo := new(RepoMock)
		notifierMock := new(NotifierMock)
		svc := New(repo, new(CacheMock), notifierMock, newNoopLogger())

		repo.On("RemoveAssignment", mock.Anything, memberUID).Return(0, nil).Once()

		err := svc.Remove(context.Background(), memberUID)
		assert.ErrorIs(t, err, errs.ErrAssignmentNotFound)
		notifierMock.AssertNotCalled(t, "AssignmentChanged", mock.Anything)
	})
}

func TestAssignmentService_Confirm(t *testing.T) {
	member := &models.Member{UID: memberUID, Name: "Ivan"}
	trainer := &models.Trainer{UID: trainerUID, Name: "Olga"}
	end := time.Now().UTC().AddDate(0, 2, 0)

	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	notifierMock := new(NotifierMock)
	svc := New(repo, cacheMock, notifierMock, newNoopLogger())

	repo.On("GetMember", mock.Anything, memberUID).Return(member, nil).Once()
	repo.On("GetTrainer", mock.Anything, trainerUID).Return(trainer, nil).Once()
	repo.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(a models.Assignment) bool {
		return a.EligibilityEnd.Format(dateFormat) == end.Format(dateFormat)
	})).Return(nil).Once()
	cacheMock.On("Invalidate", "assignment:"+memberUID).Return(nil).Once()
	notifierMock.On("AssignmentChanged", mock.MatchedBy(func(e models.AssignmentEvent) bool {
		return e.Type == models.EventAssignmentChanged && e.MemberUID == memberUID
	})).Once()

	got, err := svc.Confirm(context.Background(), models.DummyAssignmentRequest{
		MemberUID:      memberUID,
		TrainerUID:     trainerUID,
		EligibilityEnd: end.Format(dateFormat),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.AssignmentConfirmed, got.Outcome)
	assert.Equal(t, "Olga", got.TrainerName)

	repo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
	notifierMock.AssertExpectations(t)
}
