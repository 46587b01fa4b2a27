package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот филиала не найден
	ErrSlotNotFound = errors.New("service slot not found")

	// ErrInvalidState возвращается, когда текущий статус слота не допускает операцию
	ErrInvalidState = errors.New("invalid service slot state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
