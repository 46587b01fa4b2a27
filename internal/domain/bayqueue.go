package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrQueueIntegrity возвращается при нарушении инварианта очереди:
	// активные позиции должны образовывать непрерывную последовательность 1..n
	// без пропусков и дубликатов. Появление этой ошибки означает баг, а не
	// пользовательскую ошибку
	ErrQueueIntegrity = errors.New("domain: queue positions violate contiguity invariant")
)

// BayQueueEntry one waiting entry for one booking at one bay
type BayQueueEntry struct {
	ID        int64
	BayID     int64
	BookingID int64
	// Position позиция в очереди; активные позиции для (bay, date)
	// образуют непрерывную последовательность, начиная с 1
	Position  int
	QueueDate time.Time

	EstimatedStartAt *time.Time
	EstimatedEndAt   *time.Time
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateQueueContiguity проверяет, что активные позиции образуют {1..n}
// Записи могут приходить в любом порядке
func ValidateQueueContiguity(entries []*BayQueueEntry) error {
	seen := make(map[int]bool, len(entries))
	active := 0
	for _, e := range entries {
		if !e.IsActive {
			continue
		}
		active++
		if e.Position < 1 {
			return fmt.Errorf("%w: non-positive position %d (entry id=%d)", ErrQueueIntegrity, e.Position, e.ID)
		}
		if seen[e.Position] {
			return fmt.Errorf("%w: duplicate position %d (entry id=%d)", ErrQueueIntegrity, e.Position, e.ID)
		}
		seen[e.Position] = true
	}
	for p := 1; p <= active; p++ {
		if !seen[p] {
			return fmt.Errorf("%w: gap at position %d", ErrQueueIntegrity, p)
		}
	}
	return nil
}

// ShiftAfterRemoval сдвигает на единицу вниз все активные позиции после removedPosition
// Возвращает записи, чьи позиции изменились; вызывается при dequeue для
// сохранения непрерывности
func ShiftAfterRemoval(entries []*BayQueueEntry, removedPosition int) []*BayQueueEntry {
	shifted := make([]*BayQueueEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsActive || e.Position <= removedPosition {
			continue
		}
		e.Position--
		shifted = append(shifted, e)
	}
	return shifted
}

// SortByPosition сортирует записи по возрастанию позиции (in place)
func SortByPosition(entries []*BayQueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})
}

// PropagateQueueEstimates пересчитывает оценки начала/завершения для всех
// активных записей, начиная с позиции fromPosition, проходя очередь в порядке
// позиций и накапливая длительности бронирований
//
// baseStart задает момент, с которого может начаться запись на позиции fromPosition
// (обычно оценка завершения предыдущей записи или фактическое завершение
// текущего слота). Длительность берется из durationByBooking; для бронирований
// без оценки используется DefaultQueueEstimateMinutes.
//
// Оценки учитывают только накопление длительностей; доступность персонала не
// рассматривается.
func PropagateQueueEstimates(entries []*BayQueueEntry, fromPosition int, baseStart time.Time, durationByBooking map[int64]int) {
	SortByPosition(entries)

	cursor := baseStart
	for _, e := range entries {
		if !e.IsActive || e.Position < fromPosition {
			continue
		}
		duration := durationByBooking[e.BookingID]
		if duration <= 0 {
			duration = DefaultQueueEstimateMinutes
		}

		start := cursor
		end := start.Add(time.Duration(duration) * time.Minute)
		e.EstimatedStartAt = &start
		e.EstimatedEndAt = &end
		cursor = end
	}
}
