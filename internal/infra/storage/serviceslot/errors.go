package serviceslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот филиала не найден
	ErrSlotNotFound = errors.New("serviceslot.repository: service slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("serviceslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("serviceslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("serviceslot.repository: failed to scan row")
)
