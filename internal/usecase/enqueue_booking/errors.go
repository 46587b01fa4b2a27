package enqueue_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("enqueue_booking: booking not found")

	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("enqueue_booking: bay not found")

	// ErrBayNotOperable возвращается, когда бокс не принимает новые записи в очередь
	ErrBayNotOperable = errors.New("enqueue_booking: bay is not operable")

	// ErrAlreadyQueued возвращается, когда у бронирования уже есть активная запись
	// в очереди этого бокса
	ErrAlreadyQueued = errors.New("enqueue_booking: booking already has an active queue entry for this bay")

	// ErrInvalidState возвращается, когда статус бронирования не допускает постановку в очередь
	ErrInvalidState = errors.New("enqueue_booking: booking state does not permit queueing")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("enqueue_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("enqueue_booking: internal error")
)
