package models

import "time"

// Типы событий, публикуемых во встречный сервис.
const (
	EventSessionUpserted   = "session.upserted"
	EventSessionDeleted    = "session.deleted"
	EventAssignmentChanged = "assignment.changed"
	EventAssignmentRemoved = "assignment.removed"
)

// SessionEvent уведомление встречного сервиса об изменении тренировки.
// Доставка best-effort: получатель обязан обрабатывать событие идемпотентно,
// идентификатор тренировки детерминированный, см. SessionUID.
type SessionEvent struct {
	Type       string    `json:"type"`
	SessionUID string    `json:"session_uid"`
	Name       string    `json:"name,omitempty"`
	MemberUID  string    `json:"member_uid"`
	TrainerUID string    `json:"trainer_uid"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AssignmentEvent уведомление встречного сервиса об изменении закрепления.
type AssignmentEvent struct {
	Type           string    `json:"type"`
	MemberUID      string    `json:"member_uid"`
	TrainerUID     string    `json:"trainer_uid"`
	EligibilityEnd time.Time `json:"eligibility_end"`
	OccurredAt     time.Time `json:"occurred_at"`
}
