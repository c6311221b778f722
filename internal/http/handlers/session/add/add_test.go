package add

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Add(ctx context.Context, req models.DummyAddSession) (*models.SessionSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionSummary), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAddHandler_ServeHTTP(t *testing.T) {
	const (
		memberUID  = "11111111-1111-1111-1111-111111111111"
		trainerUID = "22222222-2222-2222-2222-222222222222"
	)
	start := time.Now().UTC().AddDate(0, 0, 5).Truncate(time.Hour)
	validReq := models.DummyAddSession{
		MemberUID:     memberUID,
		TrainerUID:    trainerUID,
		StartTime:     start.Format(time.RFC3339),
		DurationHours: 1,
		Name:          "Cardio",
	}
	summary := &models.SessionSummary{
		UID:        models.SessionUID(memberUID, trainerUID, start, start.Add(time.Hour)),
		MemberUID:  memberUID,
		TrainerUID: trainerUID,
		StartTime:  start.Format(time.RFC3339),
		EndTime:    start.Add(time.Hour).Format(time.RFC3339),
		Status:     models.SessionStatusScheduled,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResult     *models.SessionSummary
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid request",
			requestBody:    validReq,
			mockResult:     summary,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "validation error - member uid is not uuid",
			requestBody: models.DummyAddSession{
				MemberUID:     "not-a-uuid",
				TrainerUID:    trainerUID,
				StartTime:     validReq.StartTime,
				DurationHours: 1,
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field MemberUID can contain only uuid",
		},
		{
			name: "validation error - duration too long",
			requestBody: models.DummyAddSession{
				MemberUID:     memberUID,
				TrainerUID:    trainerUID,
				StartTime:     validReq.StartTime,
				DurationHours: 13,
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field DurationHours must be at most 12",
		},
		{
			name:           "slot conflict",
			requestBody:    validReq,
			mockErr:        errs.ErrSlotConflict,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      errs.ErrSlotConflict.Error(),
		},
		{
			name:           "assigned to another trainer",
			requestBody:    validReq,
			mockErr:        errs.ErrTrainerMismatch,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      errs.ErrTrainerMismatch.Error(),
		},
		{
			name:           "member not found",
			requestBody:    validReq,
			mockErr:        errs.ErrMemberNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      errs.ErrMemberNotFound.Error(),
		},
		{
			name:           "unexpected error is masked",
			requestBody:    validReq,
			mockErr:        assert.AnError,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockResult != nil || tt.mockErr != nil {
				serviceMock.On("Add", mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			body, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}
			if tt.wantStatusCode == http.StatusOK {
				data := resp["data"].(map[string]any)
				assert.Equal(t, summary.UID, data["uid"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
