package cache

import "fmt"

// Построители ключей кэша. Ключи формируются только здесь, чтобы область
// инвалидации была явным аргументом вызова, а не строкой на месте.

// AssignmentKey ключ проекции «текущий тренер клиента».
func AssignmentKey(memberUID string) string {
	return fmt.Sprintf("assignment:%s", memberUID)
}

// UpcomingSessionsKey ключ проекции предстоящих тренировок участника.
// Список не пагинируется: рабочее множество ограничено окном допуска.
func UpcomingSessionsKey(partyUID string) string {
	return fmt.Sprintf("sessions:upcoming:%s", partyUID)
}

// PastSessionsKey ключ страницы истории тренировок участника.
func PastSessionsKey(partyUID string, page, pageSize int) string {
	return fmt.Sprintf("sessions:past:%s:%d:%d", partyUID, page, pageSize)
}

// PastSessionsPrefix префикс всех страниц истории участника,
// используется для инвалидации семейства целиком.
func PastSessionsPrefix(partyUID string) string {
	return fmt.Sprintf("sessions:past:%s:", partyUID)
}
