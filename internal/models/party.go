// Package models содержит доменные структуры планировщика тренировок,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Member клиент зала. Профиль принадлежит сервису клиентов,
// здесь хранится зеркальная копия, достаточная для проверок планировщика.
type Member struct {
	UID             string    // Идентификатор клиента
	Name            string    // Отображаемое имя
	ProfileImageURL string    // Ссылка на аватар
	PlanExpiry      time.Time // Дата окончания абонемента
}

// Trainer тренер. Владеет нулём и более закреплений клиентов.
type Trainer struct {
	UID             string // Идентификатор тренера
	Name            string // Отображаемое имя
	ProfileImageURL string // Ссылка на аватар
}

// PartyScope сторона расписания, по которой выбираются тренировки.
type PartyScope string

// Возможные стороны выборки.
const (
	ScopeTrainer PartyScope = "trainer"
	ScopeMember  PartyScope = "member"
)

// Column возвращает имя колонки таблицы sessions для стороны выборки.
// Неизвестное значение сводится к колонке тренера, чтобы произвольная
// строка не могла попасть в текст запроса.
func (s PartyScope) Column() string {
	if s == ScopeMember {
		return "member_uid"
	}
	return "trainer_uid"
}
