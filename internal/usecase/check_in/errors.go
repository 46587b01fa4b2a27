package check_in

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("check_in: booking not found")

	// ErrInvalidState возвращается, когда статус бронирования не допускает check-in
	// Ошибка интеграции, а не временное условие: статус бронирования остается прежним
	ErrInvalidState = errors.New("check_in: booking state does not permit check-in")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_in: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_in: internal error")
)
