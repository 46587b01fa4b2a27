package bays

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bays/models"
)

// Service сервис реестра боксов филиала
type Service struct {
	bayRepo BayRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса боксов
func NewService(bayRepo BayRepository, logger Logger) *Service {
	return &Service{
		bayRepo: bayRepo,
		logger:  logger,
	}
}

// Create регистрирует новый бокс филиала
// Новый бокс создается в состоянии ACTIVE и сразу доступен для расписания
func (s *Service) Create(ctx context.Context, req *models.CreateBayRequest) (*models.BayResponse, error) {
	s.logger.Info("Create: registering bay %q for branch=%d", req.Name, req.BranchID)

	if req.BranchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	bay := &domain.ServiceBay{
		BranchID:     req.BranchID,
		Name:         req.Name,
		Code:         req.Code,
		State:        domain.BayStateActive,
		DisplayOrder: req.DisplayOrder,
	}

	created, err := s.bayRepo.Create(ctx, bay)
	if err != nil {
		s.logger.Error("Create: repository error for branch=%d: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: bay id=%d registered", created.ID)
	return models.FromDomainBay(created), nil
}

// GetByID получает бокс по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BayResponse, error) {
	bay, err := s.bayRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			s.logger.Warn("GetByID: bay id=%d not found", id)
			return nil, ErrBayNotFound
		}
		s.logger.Error("GetByID: repository error for bay id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBay(bay), nil
}

// ListByBranch получает все боксы филиала в порядке отображения
func (s *Service) ListByBranch(ctx context.Context, branchID int64) (*models.BayListResponse, error) {
	if branchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	bays, err := s.bayRepo.ListByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("ListByBranch: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: ListByBranch - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBranch: fetched %d bays for branch=%d", len(bays), branchID)
	return models.FromDomainBayList(bays), nil
}

// UpdateState переводит бокс в новое состояние
// Существующие слоты и очереди не трогаются: неоперабельный бокс лишь
// перестает принимать новые записи
func (s *Service) UpdateState(ctx context.Context, id int64, state string) (*models.BayResponse, error) {
	s.logger.Info("UpdateState: bay id=%d -> %s", id, state)

	bayState, ok := domain.ValidBayState(state)
	if !ok {
		s.logger.Warn("UpdateState: unknown state %q for bay id=%d", state, id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}

	if err := s.bayRepo.UpdateState(ctx, id, bayState); err != nil {
		if errors.Is(err, bayRepo.ErrBayNotFound) {
			return nil, ErrBayNotFound
		}
		s.logger.Error("UpdateState: repository error for bay id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateState - repository error: %v", ErrInternal, err)
	}

	return s.GetByID(ctx, id)
}
