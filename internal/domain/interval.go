package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInterval возвращается для пустого или перевернутого интервала (end <= start)
	ErrInvalidInterval = errors.New("domain: invalid interval, end must be after start")
)

// Interval полуоткрытый временной интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создает интервал, отклоняя пустые и перевернутые диапазоны
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Duration возвращает длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps возвращает true, если интервалы пересекаются
// Правило для полуоткрытых интервалов: other.Start < i.End && other.End > i.Start
// Касание границами (end == start) пересечением не считается
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.Before(i.End) && other.End.After(i.Start)
}

// HasConflict проверяет кандидата на пересечение с набором занятых интервалов
// Один и тот же детектор используется для слотов боксов, слотов филиала
// и назначений персонала
func HasConflict(candidate Interval, existing []Interval) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

// FirstConflict возвращает первый пересекающийся интервал из набора
func FirstConflict(candidate Interval, existing []Interval) (Interval, bool) {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return e, true
		}
	}
	return Interval{}, false
}
