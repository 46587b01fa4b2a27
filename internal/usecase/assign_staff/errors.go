package assign_staff

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("assign_staff: booking not found")

	// ErrStaffConflict возвращается, когда окно назначения пересекается с
	// активным назначением того же сотрудника
	ErrStaffConflict = errors.New("assign_staff: staff member has a conflicting assignment")

	// ErrNoCandidates возвращается, когда автоподбор не нашел свободного сотрудника
	ErrNoCandidates = errors.New("assign_staff: no candidate staff member is available in the window")

	// ErrInvalidState возвращается, когда статус бронирования не допускает назначение
	ErrInvalidState = errors.New("assign_staff: booking state does not permit assignment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("assign_staff: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("assign_staff: internal error")
)
