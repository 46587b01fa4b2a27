package pause_service

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("pause_service: booking not found")

	// ErrInvalidState возвращается, когда статус бронирования не допускает паузу
	ErrInvalidState = errors.New("pause_service: booking state does not permit pausing")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("pause_service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("pause_service: internal error")
)
