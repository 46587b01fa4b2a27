package bay

import "errors"

var (
	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("bay.repository: bay not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bay.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bay.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bay.repository: failed to scan row")
)
