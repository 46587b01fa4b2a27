package cancel_booking

import "github.com/m04kA/VSC-SchedulingService/internal/domain"

// Request запрос на отмену бронирования
type Request struct {
	BookingID int64
	Reason    string
	// NoShow помечает отмену как неявку клиента (статус NO_SHOW вместо CANCELLED)
	NoShow bool
}

// Response результат отмены бронирования
type Response struct {
	BookingID int64
	Status    domain.BookingStatus
	// ReleasedSlotID ID слота, возвращенного в AVAILABLE; nil, если слота не было
	// или он уже был в работе
	ReleasedSlotID *int64
	// DequeuedEntries количество деактивированных записей очереди
	DequeuedEntries int
}
