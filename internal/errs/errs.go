// Package errs содержит типизированные ошибки бизнес-логики планировщика.
// Ошибки определяются как sentinel-значения: сервисы возвращают их напрямую
// или через fmt.Errorf с %w, а обработчики сопоставляют их HTTP-статусам.
package errs

import "errors"

var (
	// ErrMemberNotFound клиент с указанным идентификатором не найден.
	ErrMemberNotFound = errors.New("member not found")
	// ErrTrainerNotFound тренер с указанным идентификатором не найден.
	ErrTrainerNotFound = errors.New("trainer not found")
	// ErrSessionNotFound тренировка с указанным идентификатором не найдена.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAssignmentNotFound у клиента нет закрепления за тренером.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrAssignmentConflict у клиента есть действующее закрепление за другим тренером.
	ErrAssignmentConflict = errors.New("member already has an active assignment with another trainer")
	// ErrSlotConflict интервал пересекается с уже запланированной тренировкой.
	ErrSlotConflict = errors.New("time slot conflicts with an existing session")

	// ErrAssignmentExpired срок закрепления клиента за тренером истёк.
	ErrAssignmentExpired = errors.New("trainer assignment has expired")

	// ErrTrainerMismatch клиент закреплён за другим тренером.
	ErrTrainerMismatch = errors.New("member is assigned to another trainer")
	// ErrOwnershipMismatch идентификаторы владельцев не совпадают с записью тренировки.
	ErrOwnershipMismatch = errors.New("session does not belong to the given member and trainer")

	// ErrPastSession тренировка уже началась, изменение и удаление запрещены.
	ErrPastSession = errors.New("past sessions are immutable")

	// ErrPastEligibilityEnd запрошенная дата окончания окна допуска уже прошла.
	ErrPastEligibilityEnd = errors.New("eligibility end date must not be earlier than today")

	// ErrInvalidInterval конец интервала не позже его начала.
	ErrInvalidInterval = errors.New("interval end must be after start")
)
