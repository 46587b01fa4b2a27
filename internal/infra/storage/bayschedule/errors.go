package bayschedule

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот расписания не найден
	ErrSlotNotFound = errors.New("bayschedule.repository: slot not found")

	// ErrScheduleExists возвращается при попытке повторной генерации расписания
	// на бокс/дату, для которых слоты уже существуют
	ErrScheduleExists = errors.New("bayschedule.repository: schedule already exists for bay and date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bayschedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bayschedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bayschedule.repository: failed to scan row")
)
