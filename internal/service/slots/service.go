package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots/models"
)

// Service сервис пула слотов филиала для операторов
type Service struct {
	slotRepo ServiceSlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo ServiceSlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Create публикует новый слот филиала
// Слот создается в статусе AVAILABLE; слоты категории maintenance никогда не
// попадают в клиентские выдачи, но резервируют время филиала
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Create: new slot for branch=%d, date=%s, window=%s-%s",
		req.BranchID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	category := domain.SlotCategoryStandard
	if req.Category != "" {
		parsed, ok := domain.ValidSlotCategory(req.Category)
		if !ok {
			s.logger.Warn("Create: unknown category %q for branch=%d", req.Category, req.BranchID)
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
		}
		category = parsed
	}

	slot := &domain.ServiceSlot{
		BranchID:      req.BranchID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Category:      category,
		Status:        domain.ServiceSlotStatusAvailable,
		PriorityOrder: req.PriorityOrder,
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("Create: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: slot id=%d published", created.ID)
	return models.FromDomainSlot(created), nil
}

// Close снимает слот с витрины с указанием причины
// Забронированный слот закрыть нельзя: сначала отменяется бронирование
func (s *Service) Close(ctx context.Context, id int64, reason string) (*models.SlotResponse, error) {
	s.logger.Info("Close: slot id=%d, reason=%q", id, reason)

	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := slot.Close(reason); err != nil {
		s.logger.Warn("Close: slot id=%d not closable: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.slotRepo.Update(ctx, slot); err != nil {
		s.logger.Error("Close: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Close - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// Open возвращает закрытый слот на витрину
func (s *Service) Open(ctx context.Context, id int64) (*models.SlotResponse, error) {
	s.logger.Info("Open: slot id=%d", id)

	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := slot.Open(); err != nil {
		s.logger.Warn("Open: slot id=%d not openable: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := s.slotRepo.Update(ctx, slot); err != nil {
		s.logger.Error("Open: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Open - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

func (s *Service) getSlot(ctx context.Context, id int64) (*domain.ServiceSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("getSlot: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("getSlot: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: getSlot - repository error: %v", ErrInternal, err)
	}
	return slot, nil
}
