package generate_schedule

import "errors"

var (
	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("generate_schedule: bay not found")

	// ErrBayNotOperable возвращается, когда бокс не принимает записи
	ErrBayNotOperable = errors.New("generate_schedule: bay is not operable")

	// ErrScheduleExists возвращается, когда расписание на бокс/дату уже сгенерировано
	ErrScheduleExists = errors.New("generate_schedule: schedule already exists for bay and date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_schedule: internal error")
)
