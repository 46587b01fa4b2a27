package start_service

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("start_service: booking not found")

	// ErrSlotNotFound возвращается, когда у бронирования нет зарезервированного слота
	ErrSlotNotFound = errors.New("start_service: booking has no reserved bay slot")

	// ErrInvalidState возвращается, когда статус бронирования или слота не допускает старт
	// Статус бронирования при этом остается прежним
	ErrInvalidState = errors.New("start_service: state does not permit starting service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("start_service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("start_service: internal error")
)
