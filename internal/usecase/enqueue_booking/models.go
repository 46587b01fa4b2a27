package enqueue_booking

import "time"

// Request запрос на постановку бронирования в очередь бокса
type Request struct {
	BookingID int64
	BayID     int64
	Date      time.Time
}

// Response результат постановки в очередь
type Response struct {
	EntryID          int64
	BayID            int64
	BookingID        int64
	Position         int
	EstimatedStartAt *time.Time
	EstimatedEndAt   *time.Time
}
