package enqueue_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	queueRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayqueue"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
)

// UseCase use case постановки бронирования в очередь ожидания бокса
type UseCase struct {
	bookingRepo  BookingRepository
	bayRepo      BayRepository
	queueRepo    QueueRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	bayRepo BayRepository,
	queueRepo QueueRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		bayRepo:      bayRepo,
		queueRepo:    queueRepo,
		txManager:    txManager,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute ставит бронирование в хвост очереди бокса
// Позиция назначается как lastPosition + 1 под блокировкой активных записей
// (bay, date): конкурирующие enqueue не могут получить одну позицию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Enqueue: booking=%d, bay=%d, date=%s",
		req.BookingID, req.BayID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Enqueue: validation failed: %v", err)
		return nil, err
	}

	var result *domain.BayQueueEntry

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if !booking.IsActive() {
			uc.logger.Warn("Enqueue: booking id=%d in terminal status=%s", booking.ID, booking.Status)
			return fmt.Errorf("%w: status=%s", ErrInvalidState, booking.Status)
		}

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

		// Бронирование имеет не более одной активной записи в очереди бокса
		if _, err := uc.queueRepo.GetActiveByBayAndBooking(txCtx, req.BayID, req.BookingID); err == nil {
			return ErrAlreadyQueued
		} else if !errors.Is(err, queueRepo.ErrEntryNotFound) {
			return fmt.Errorf("%w: failed to check existing entry: %v", ErrInternal, err)
		}

		entries, err := uc.queueRepo.GetActiveByBayAndDate(txCtx, req.BayID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get queue: %v", ErrInternal, err)
		}
		if err := domain.ValidateQueueContiguity(entries); err != nil {
			// Нарушение инварианта очереди: баг, а не пользовательская ошибка
			uc.logger.Error("Enqueue: queue integrity violated for bay=%d: %v", req.BayID, err)
			return err
		}

		position := len(entries) + 1

		// Оценки: старт после завершения последней записи либо от текущего момента
		estimatedStart := uc.timeProvider.Now()
		if len(entries) > 0 {
			last := entries[len(entries)-1]
			if last.EstimatedEndAt != nil && last.EstimatedEndAt.After(estimatedStart) {
				estimatedStart = *last.EstimatedEndAt
			}
		}
		duration := booking.EstimatedDurationMinutes
		if duration <= 0 {
			duration = domain.DefaultQueueEstimateMinutes
		}
		estimatedEnd := estimatedStart.Add(time.Duration(duration) * time.Minute)

		entry := &domain.BayQueueEntry{
			BayID:            req.BayID,
			BookingID:        req.BookingID,
			Position:         position,
			QueueDate:        req.Date,
			EstimatedStartAt: &estimatedStart,
			EstimatedEndAt:   &estimatedEnd,
			IsActive:         true,
		}

		if result, err = uc.queueRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: failed to create queue entry: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateBay(req.BayID, req.Date)

	uc.logger.Info("Enqueue: booking=%d queued at position=%d for bay=%d", req.BookingID, result.Position, req.BayID)

	return &Response{
		EntryID:          result.ID,
		BayID:            result.BayID,
		BookingID:        result.BookingID,
		Position:         result.Position,
		EstimatedStartAt: result.EstimatedStartAt,
		EstimatedEndAt:   result.EstimatedEndAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.BayID <= 0 {
		return fmt.Errorf("%w: bayID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}
