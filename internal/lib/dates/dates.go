// Package dates содержит вспомогательные функции для календарной арифметики
// окна допуска: все сроки закрепления считаются в целых днях по UTC.
package dates

import "time"

// Day обрезает момент времени до начала суток по UTC.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// DaysUntil считает количество целых дней от from до to.
// Если to раньше from, результат отрицательный.
func DaysUntil(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Expired сообщает, истёк ли срок end на момент now.
// Срок действует включительно до конца дня end.
func Expired(end, now time.Time) bool {
	return Day(end).Before(Day(now))
}
