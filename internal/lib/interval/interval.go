// Package interval реализует полуоткрытые временные интервалы [start, end)
// и предикат пересечения для проверки конфликтов расписания.
//
// Пересечение считается по строгому правилу s1 < e2 && s2 < e1, а не по
// вхождению одного интервала в другой: проверка «существующий интервал
// целиком внутри нового» пропускает частичные наложения.
package interval

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
)

// Interval полуоткрытый временной интервал [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New создаёт интервал и проверяет, что конец позже начала.
func New(start, end time.Time) (Interval, error) {
	const op = "interval.New"
	if !end.After(start) {
		return Interval{}, fmt.Errorf("%s: %w", op, errs.ErrInvalidInterval)
	}
	return Interval{Start: start, End: end}, nil
}

// FromDuration создаёт интервал от начала и длительности.
func FromDuration(start time.Time, d time.Duration) (Interval, error) {
	return New(start, start.Add(d))
}

// Overlaps сообщает, пересекаются ли два полуоткрытых интервала.
// Интервалы «впритык» ([10:00,11:00) и [11:00,12:00)) не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains сообщает, попадает ли момент t в интервал.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration возвращает длительность интервала.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
