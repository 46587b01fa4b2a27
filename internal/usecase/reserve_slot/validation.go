package reserve_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Пустые и перевернутые интервалы отклоняются до любых обращений к БД
func validateRequest(req *Request) (domain.Interval, error) {
	if req.BookingID <= 0 {
		return domain.Interval{}, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.BayID <= 0 {
		return domain.Interval{}, fmt.Errorf("%w: bayID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return domain.Interval{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	window, err := domain.NewInterval(req.StartTime.At(req.Date), req.EndTime.At(req.Date))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInterval) {
			return domain.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return domain.Interval{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return window, nil
}
