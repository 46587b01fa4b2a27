package reserve_slot

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reserve_slot: booking not found")

	// ErrBayNotFound возвращается, когда бокс не найден
	ErrBayNotFound = errors.New("reserve_slot: bay not found")

	// ErrBayNotOperable возвращается, когда бокс на обслуживании, закрыт или неактивен
	ErrBayNotOperable = errors.New("reserve_slot: bay is not operable")

	// ErrSlotConflict возвращается, когда запрошенное окно пересекается с занятым слотом
	// Конфликт не ретраится автоматически: выбор другого окна/бокса остается за вызывающим
	ErrSlotConflict = errors.New("reserve_slot: requested window conflicts with a committed slot")

	// ErrAlreadyReserved возвращается, когда бронирование уже занимает бокс
	ErrAlreadyReserved = errors.New("reserve_slot: booking already occupies a bay slot")

	// ErrInvalidState возвращается, когда статус бронирования не допускает резервирование
	ErrInvalidState = errors.New("reserve_slot: booking state does not permit reservation")

	// ErrServiceSlotNotFound возвращается, когда слот филиала не найден
	ErrServiceSlotNotFound = errors.New("reserve_slot: service slot not found")

	// ErrServiceSlotNotBookable возвращается, когда слот филиала нельзя привязать к бронированию
	ErrServiceSlotNotBookable = errors.New("reserve_slot: service slot is not bookable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)
