package schedule

import "errors"

var (
	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("bay not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
