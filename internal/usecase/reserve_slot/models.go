package reserve_slot

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// Request запрос на резервирование окна бокса под бронирование
type Request struct {
	BookingID int64
	BayID     int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	// ServiceSlotID опциональная привязка к слоту филиала, выбранному клиентом
	ServiceSlotID *int64
}

// Response результат резервирования
type Response struct {
	SlotID    int64
	BookingID int64
	BayID     int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    string
}
