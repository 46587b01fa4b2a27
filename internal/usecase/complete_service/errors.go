package complete_service

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("complete_service: booking not found")

	// ErrSlotNotFound возвращается, когда у бронирования нет слота в работе
	ErrSlotNotFound = errors.New("complete_service: booking has no slot in progress")

	// ErrInvalidState возвращается, когда статус бронирования или слота не допускает завершение
	ErrInvalidState = errors.New("complete_service: state does not permit completing service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_service: internal error")
)
