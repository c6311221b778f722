package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Статусы тренировки.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
)

// Session запланированная тренировка клиента с тренером.
// Интервал [StartTime, EndTime) полуоткрытый: тренировки «впритык» не конфликтуют.
type Session struct {
	UID        string    // Детерминированный идентификатор, см. SessionUID
	Name       string    // Название тренировки
	MemberUID  string    // Идентификатор клиента
	TrainerUID string    // Идентификатор тренера
	StartTime  time.Time // Начало
	EndTime    time.Time // Конец
	Status     string    // scheduled или completed
}

// sessionNamespace пространство имён для UUIDv5 идентификаторов тренировок.
var sessionNamespace = uuid.MustParse("9f2c1d36-5b7a-4c84-b1e7-3d8a20f6c4aa")

// SessionUID детерминированно выводит идентификатор тренировки из участников
// и границ интервала. Повторная доставка уведомления о той же тренировке
// приводит к тому же идентификатору, что делает обработку идемпотентной.
func SessionUID(memberUID, trainerUID string, start, end time.Time) string {
	seed := fmt.Sprintf("%s|%s|%d|%d", memberUID, trainerUID, start.UTC().Unix(), end.UTC().Unix())
	return uuid.NewSHA1(sessionNamespace, []byte(seed)).String()
}

// DummyAddSession используется для приёма запроса на создание тренировки из JSON.
type DummyAddSession struct {
	MemberUID     string `json:"member_uid" validate:"required,uuid"`
	TrainerUID    string `json:"trainer_uid" validate:"required,uuid"`
	StartTime     string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"` // Начало в формате RFC3339
	DurationHours int    `json:"duration_hours" validate:"required,gt=0,lte=12"`
	Name          string `json:"name"`
}

// DummyUpdateSession используется для приёма запроса на перенос тренировки из JSON.
// Идентификаторы владельцев обязаны совпадать с записью тренировки.
type DummyUpdateSession struct {
	MemberUID     string `json:"member_uid" validate:"required,uuid"`
	TrainerUID    string `json:"trainer_uid" validate:"required,uuid"`
	StartTime     string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationHours int    `json:"duration_hours" validate:"required,gt=0,lte=12"`
	Name          string `json:"name"`
}

// DummyDeleteSession используется для приёма запроса на удаление тренировки из JSON.
type DummyDeleteSession struct {
	MemberUID  string `json:"member_uid" validate:"required,uuid"`
	TrainerUID string `json:"trainer_uid" validate:"required,uuid"`
}

// SessionSummary ответ сервиса на операции с тренировками.
type SessionSummary struct {
	UID        string `json:"uid"`
	Name       string `json:"name,omitempty"`
	MemberUID  string `json:"member_uid"`
	TrainerUID string `json:"trainer_uid"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
}

// NewSessionSummary формирует SessionSummary из доменной модели.
func NewSessionSummary(s *Session) SessionSummary {
	return SessionSummary{
		UID:        s.UID,
		Name:       s.Name,
		MemberUID:  s.MemberUID,
		TrainerUID: s.TrainerUID,
		StartTime:  s.StartTime.UTC().Format(time.RFC3339),
		EndTime:    s.EndTime.UTC().Format(time.RFC3339),
		Status:     s.Status,
	}
}

// SessionPage страница истории тренировок с метаданными пагинации.
type SessionPage struct {
	Items    []SessionSummary `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
}
