package generate_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
)

// UseCase use case генерации дневной сетки расписания бокса
type UseCase struct {
	bayRepo      BayRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger

	// defaultSlotLengthMinutes длина слота из конфигурации сервиса
	defaultSlotLengthMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bayRepo BayRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	defaultSlotLengthMinutes int,
	logger Logger,
) *UseCase {
	if defaultSlotLengthMinutes <= 0 {
		defaultSlotLengthMinutes = domain.DefaultSlotLengthMinutes
	}
	return &UseCase{
		bayRepo:                  bayRepo,
		scheduleRepo:             scheduleRepo,
		txManager:                txManager,
		logger:                   logger,
		defaultSlotLengthMinutes: defaultSlotLengthMinutes,
	}
}

// Execute генерирует непрерывную сетку AVAILABLE слотов на бокс и дату
// Слоты нарезаются от времени открытия с шагом slotLength; неполный хвост
// перед закрытием отбрасывается. Повторная генерация на ту же пару бокс/дата
// отклоняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSchedule: bay=%d, date=%s, window=%s-%s",
		req.BayID, req.Date.Format(domain.DateFormat), req.OpenTime, req.CloseTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSchedule: validation failed: %v", err)
		return nil, err
	}

	slotLength := req.SlotLengthMinutes
	if slotLength <= 0 {
		slotLength = uc.defaultSlotLengthMinutes
	}

	slots, err := buildGrid(req, slotLength)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: working window %s-%s shorter than slot length %d min",
			ErrInvalidInput, req.OpenTime, req.CloseTime, slotLength)
	}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		serviceBay, err := uc.bayRepo.GetByID(txCtx, req.BayID)
		if err != nil {
			if errors.Is(err, bayRepo.ErrBayNotFound) {
				return ErrBayNotFound
			}
			return fmt.Errorf("%w: failed to get bay: %v", ErrInternal, err)
		}
		if !serviceBay.IsOperable() {
			return fmt.Errorf("%w: state=%s", ErrBayNotOperable, serviceBay.State)
		}

		exists, err := uc.scheduleRepo.ExistsForBayDate(txCtx, req.BayID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to check existing schedule: %v", ErrInternal, err)
		}
		if exists {
			return ErrScheduleExists
		}

		if err := uc.scheduleRepo.CreateBatch(txCtx, slots); err != nil {
			return fmt.Errorf("%w: failed to create slots: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("GenerateSchedule: bay=%d, date=%s, created %d slots",
		req.BayID, req.Date.Format(domain.DateFormat), len(slots))

	resp := &Response{BayID: req.BayID, Date: req.Date}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, GeneratedSlot{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return resp, nil
}

// buildGrid нарезает рабочее окно на последовательные слоты фиксированной длины
func buildGrid(req *Request, slotLength int) ([]*domain.BaySchedule, error) {
	slots := make([]*domain.BaySchedule, 0, req.CloseTime.Sub(req.OpenTime)/slotLength)

	cursor := req.OpenTime
	for req.CloseTime.Sub(cursor) >= slotLength {
		end, err := cursor.AddMinutes(slotLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		slots = append(slots, &domain.BaySchedule{
			BayID:     req.BayID,
			Date:      req.Date,
			StartTime: cursor,
			EndTime:   end,
			Status:    domain.SlotStatusAvailable,
		})
		cursor = end
	}
	return slots, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BayID <= 0 {
		return fmt.Errorf("%w: bayID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}
	if err := req.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
	}
	if !req.OpenTime.IsBefore(req.CloseTime) {
		return fmt.Errorf("%w: openTime %s must be before closeTime %s", ErrInvalidInput, req.OpenTime, req.CloseTime)
	}
	// 0 означает "использовать длину слота по умолчанию"
	if req.SlotLengthMinutes != 0 &&
		(req.SlotLengthMinutes < domain.MinSlotLengthMinutes || req.SlotLengthMinutes > domain.MaxSlotLengthMinutes) {
		return fmt.Errorf("%w: slotLengthMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotLengthMinutes, domain.MaxSlotLengthMinutes)
	}
	return nil
}
