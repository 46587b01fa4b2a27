package reserve_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	scheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	serviceSlotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
	"github.com/m04kA/VSC-SchedulingService/pkg/ptr"
)

// UseCase use case резервирования окна бокса под бронирование
type UseCase struct {
	bookingRepo     BookingRepository
	bayRepo         BayRepository
	scheduleRepo    ScheduleRepository
	serviceSlotRepo ServiceSlotRepository
	txManager       TransactionManager
	cache           CacheInvalidator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	bayRepo BayRepository,
	scheduleRepo ScheduleRepository,
	serviceSlotRepo ServiceSlotRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		bayRepo:         bayRepo,
		scheduleRepo:    scheduleRepo,
		serviceSlotRepo: serviceSlotRepo,
		txManager:       txManager,
		cache:           cache,
		logger:          logger,
	}
}

// Execute резервирует окно бокса под бронирование
// Все операции над (bay, date) выполняются в сериализуемой транзакции с
// блокировкой строк: два бронирования, претендующих на одно окно, не могут
// пройти проверку конфликтов одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: booking=%d, bay=%d, date=%s, window=%s-%s",
		req.BookingID, req.BayID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных до входа в транзакцию
	window, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	var result *domain.BaySchedule

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Загружаем бронирование с блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// Терминальное бронирование не может мутировать бокс/слот
		if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
			uc.logger.Warn("ReserveSlot: booking id=%d in status=%s", booking.ID, booking.Status)
			return fmt.Errorf("%w: status=%s", ErrInvalidState, booking.Status)
		}

		// 3. Бронирование занимает не более одного бокса одновременно
		if _, err := uc.scheduleRepo.GetActiveByBookingID(txCtx, booking.ID); err == nil {
			return ErrAlreadyReserved
		} else if !errors.Is(err, scheduleRepo.ErrSlotNotFound) {
			return fmt.Errorf("%w: failed to check existing slot: %v", ErrInternal, err)
		}

		// 4. Бокс должен быть работоспособен
		serviceBay, err := uc.bayRepo.GetByID(txCtx, req.BayID)
		if err != nil {
			if errors.Is(err, bayRepo.ErrBayNotFound) {
				return ErrBayNotFound
			}
			return fmt.Errorf("%w: failed to get bay: %v", ErrInternal, err)
		}
		if !serviceBay.IsOperable() {
			uc.logger.Warn("ReserveSlot: bay id=%d state=%s", serviceBay.ID, serviceBay.State)
			return fmt.Errorf("%w: state=%s", ErrBayNotOperable, serviceBay.State)
		}

		// 5. Проверяем пересечение с занятыми слотами (BOOKED/IN_PROGRESS)
		committed, err := uc.scheduleRepo.GetByBayAndDate(txCtx, req.BayID, req.Date, domain.CommittedSlotStatuses)
		if err != nil {
			return fmt.Errorf("%w: failed to get committed slots: %v", ErrInternal, err)
		}
		if domain.HasConflict(window, domain.CommittedIntervals(committed, 0)) {
			uc.logger.Warn("ReserveSlot: conflict for bay=%d window=%s-%s", req.BayID, req.StartTime, req.EndTime)
			return ErrSlotConflict
		}

		// 6. Берем существующий AVAILABLE слот с этим окном либо создаем ad-hoc
		slot, err := uc.scheduleRepo.FindAvailableByWindow(txCtx, req.BayID, req.Date, req.StartTime, req.EndTime)
		switch {
		case err == nil:
			if err := slot.Reserve(booking.ID); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := uc.scheduleRepo.Update(txCtx, slot); err != nil {
				return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
			}
		case errors.Is(err, scheduleRepo.ErrSlotNotFound):
			slot = &domain.BaySchedule{
				BayID:     req.BayID,
				Date:      req.Date,
				StartTime: req.StartTime,
				EndTime:   req.EndTime,
				Status:    domain.SlotStatusBooked,
				BookingID: ptr.Ptr(booking.ID),
			}
			if slot, err = uc.scheduleRepo.Create(txCtx, slot); err != nil {
				return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
			}
		default:
			return fmt.Errorf("%w: failed to find available slot: %v", ErrInternal, err)
		}

		// 7. Привязываем слот филиала, если клиент выбирал из пула
		if req.ServiceSlotID != nil {
			if err := uc.bindServiceSlot(txCtx, *req.ServiceSlotID, booking.ID); err != nil {
				return err
			}
		}

		// 8. Грид успешен: двигаем бронирование
		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, ptr.Ptr(req.BayID), ptr.Ptr(window.Start), ptr.Ptr(window.End)); err != nil {
			return fmt.Errorf("%w: failed to update booking schedule: %v", ErrInternal, err)
		}
		if booking.Status == domain.BookingStatusPending {
			if err := booking.TransitionTo(domain.BookingStatusConfirmed); err != nil {
				return fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, booking.Status); err != nil {
				return fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
			}
		}

		result = slot
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Снапшоты сетки бокса устарели: оператор должен сразу видеть занятое окно
	uc.cache.InvalidateBay(req.BayID, req.Date)

	uc.logger.Info("ReserveSlot: reserved slot id=%d for booking=%d", result.ID, req.BookingID)

	return &Response{
		SlotID:    result.ID,
		BookingID: req.BookingID,
		BayID:     result.BayID,
		Date:      result.Date,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
		Status:    string(result.Status),
	}, nil
}

// bindServiceSlot привязывает бронирование к слоту филиала
func (uc *UseCase) bindServiceSlot(ctx context.Context, serviceSlotID, bookingID int64) error {
	slot, err := uc.serviceSlotRepo.GetByID(ctx, serviceSlotID)
	if err != nil {
		if errors.Is(err, serviceSlotRepo.ErrSlotNotFound) {
			return ErrServiceSlotNotFound
		}
		return fmt.Errorf("%w: failed to get service slot: %v", ErrInternal, err)
	}

	if err := slot.AssignBooking(bookingID); err != nil {
		uc.logger.Warn("ReserveSlot: service slot id=%d not bookable: %v", serviceSlotID, err)
		return ErrServiceSlotNotBookable
	}

	if err := uc.serviceSlotRepo.Update(ctx, slot); err != nil {
		return fmt.Errorf("%w: failed to update service slot: %v", ErrInternal, err)
	}
	return nil
}
