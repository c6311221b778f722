package models

import "time"

// Assignment закрепление клиента за тренером: кто кого тренирует и до какой даты.
// У клиента в любой момент не больше одного действующего закрепления —
// правило обеспечивается бизнес-логикой и уникальностью member_uid в хранилище.
type Assignment struct {
	MemberUID      string    // Идентификатор клиента
	TrainerUID     string    // Идентификатор тренера
	EligibilityEnd time.Time // Дата окончания окна допуска (включительно)
	UpdatedAt      time.Time // Момент последнего изменения записи
}

// Expired сообщает, истекло ли закрепление на момент now.
func (a *Assignment) Expired(now time.Time) bool {
	return a.EligibilityEnd.UTC().Truncate(24 * time.Hour).
		Before(now.UTC().Truncate(24 * time.Hour))
}

// DummyAssignmentRequest используется для приёма запроса на закрепление из JSON.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type DummyAssignmentRequest struct {
	MemberUID      string `json:"member_uid" validate:"required,uuid"`     // Идентификатор клиента
	TrainerUID     string `json:"trainer_uid" validate:"required,uuid"`    // Идентификатор тренера
	EligibilityEnd string `json:"eligibility_end" validate:"required,datetime=02-01-2006"` // Дата окончания в формате 02-01-2006
}

// AssignmentSummary ответ сервиса на операции с закреплением.
type AssignmentSummary struct {
	MemberUID      string `json:"member_uid"`
	TrainerUID     string `json:"trainer_uid"`
	TrainerName    string `json:"trainer_name,omitempty"`
	EligibilityEnd string `json:"eligibility_end"`
	Outcome        string `json:"outcome"` // created, extended, reassigned, confirmed
}

// Возможные исходы обработки запроса на закрепление.
const (
	AssignmentCreated    = "created"
	AssignmentExtended   = "extended"
	AssignmentReassigned = "reassigned"
	AssignmentConfirmed  = "confirmed"
)
