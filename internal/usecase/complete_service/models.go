package complete_service

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// Request запрос на завершение обслуживания
type Request struct {
	BookingID   int64
	ActualEndAt time.Time
}

// PromotedEntry описывает запись очереди, продвинутую в освободившееся окно
type PromotedEntry struct {
	EntryID   int64
	BookingID int64
	SlotID    int64
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response результат завершения обслуживания
type Response struct {
	BookingID    int64
	EarlyMinutes int
	LateMinutes  int
	// Promoted запись очереди, занявшая освободившееся окно; nil, если
	// продвижение не выполнялось
	Promoted *PromotedEntry
	// NextSlotAtRisk ID следующего слота, помеченного флагом AtRisk при опоздании
	NextSlotAtRisk *int64
}
