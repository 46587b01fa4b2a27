package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create создает бронирование в статусе PENDING
// Walk-in бронирования создаются без предпочтительного времени и попадают в
// очередь бокса отдельной операцией
func (s *Service) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Create: new booking for branch=%d, walkIn=%v", req.BranchID, req.WalkIn)

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if req.EstimatedDurationMinutes < 0 {
		return nil, fmt.Errorf("%w: estimatedDurationMinutes must not be negative", ErrInvalidInput)
	}

	bookingType := domain.BookingTypeScheduled
	if req.WalkIn {
		bookingType = domain.BookingTypeWalkIn
	}

	booking := &domain.Booking{
		Code:                     newBookingCode(),
		BranchID:                 req.BranchID,
		CustomerID:               req.CustomerID,
		CustomerName:             req.CustomerName,
		CustomerPhone:            req.CustomerPhone,
		CustomerEmail:            req.CustomerEmail,
		VehicleID:                req.VehicleID,
		VehiclePlate:             req.VehiclePlate,
		VehicleBrand:             req.VehicleBrand,
		VehicleModel:             req.VehicleModel,
		PreferredStartAt:         req.PreferredStartAt,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		TotalPrice:               req.TotalPrice,
		PaymentStatus:            domain.PaymentStatusUnpaid,
		Type:                     bookingType,
		Status:                   domain.BookingStatusPending,
	}

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.logger.Error("Create: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: booking id=%d code=%s created", created.ID, created.Code)
	return models.FromDomainBooking(created), nil
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBooking(booking), nil
}

// GetBranchBookings получает бронирования филиала с фильтрацией по боксу,
// периоду и статусу; терминальные бронирования включаются только по запросу
func (s *Service) GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error) {
	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBranchBookings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	bookings, err := s.bookingRepo.GetByBranchWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBranchBookings: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: GetBranchBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBranchBookings: fetched %d bookings for branch=%d", len(bookings), req.BranchID)
	return models.FromDomainBookingList(bookings), nil
}

// newBookingCode генерирует человекочитаемый код бронирования
func newBookingCode() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}
