package bays

import "errors"

var (
	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("bay not found")

	// ErrInvalidState возвращается при неизвестном состоянии бокса
	ErrInvalidState = errors.New("invalid bay state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
