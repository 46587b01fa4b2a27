package assign_staff

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
)

// UseCase use case назначения сотрудников и ресурсов на бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	assignmentRepo AssignmentRepository
	txManager      TransactionManager
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	assignmentRepo AssignmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Execute назначает сотрудника на бронирование
// Для одного сотрудника активные назначения не могут пересекаться по окнам:
// проверка выполняется под блокировкой его активных назначений, конкурирующие
// назначения сериализуются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AssignStaff: booking=%d, staff=%d, role=%s", req.BookingID, req.StaffID, req.Role)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AssignStaff: validation failed: %v", err)
		return nil, err
	}

	window, err := domain.NewInterval(req.AssignedFrom, req.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var resp *Response

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if !booking.IsActive() {
			uc.logger.Warn("AssignStaff: booking id=%d in terminal status=%s", booking.ID, booking.Status)
			return fmt.Errorf("%w: status=%s", ErrInvalidState, booking.Status)
		}

		staffID := req.StaffID
		if staffID == 0 {
			staffID, err = uc.pickLeastLoaded(txCtx, req.CandidateStaffIDs, window)
			if err != nil {
				return err
			}
		}

		if err := uc.ensureNoConflict(txCtx, staffID, window); err != nil {
			return err
		}

		assignment := &domain.BookingAssignment{
			BookingID:    booking.ID,
			StaffID:      staffID,
			Role:         req.Role,
			AssignedFrom: window.Start,
			AssignedTo:   window.End,
			ResourceType: req.ResourceType,
			ResourceID:   req.ResourceID,
			ResourceName: req.ResourceName,
			Status:       domain.AssignmentStatusAssigned,
		}

		created, err := uc.assignmentRepo.Create(txCtx, assignment)
		if err != nil {
			return fmt.Errorf("%w: failed to create assignment: %v", ErrInternal, err)
		}

		resp = &Response{
			AssignmentID: created.ID,
			BookingID:    created.BookingID,
			StaffID:      created.StaffID,
			Role:         created.Role,
			AssignedFrom: created.AssignedFrom,
			AssignedTo:   created.AssignedTo,
			Status:       created.Status,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AssignStaff: assignment id=%d created, staff=%d on booking=%d",
		resp.AssignmentID, resp.StaffID, resp.BookingID)

	return resp, nil
}

// ensureNoConflict проверяет окно против активных назначений сотрудника
func (uc *UseCase) ensureNoConflict(ctx context.Context, staffID int64, window domain.Interval) error {
	active, err := uc.assignmentRepo.GetActiveByStaff(ctx, staffID)
	if err != nil {
		return fmt.Errorf("%w: failed to get active assignments: %v", ErrInternal, err)
	}
	if conflict, ok := domain.FirstConflict(window, domain.ActiveAssignmentIntervals(active)); ok {
		uc.logger.Warn("AssignStaff: staff=%d busy %s-%s",
			staffID, conflict.Start.Format("15:04"), conflict.End.Format("15:04"))
		return fmt.Errorf("%w: staff=%d", ErrStaffConflict, staffID)
	}
	return nil
}

// pickLeastLoaded выбирает из кандидатов сотрудника с наименьшим числом
// активных назначений, пересекающих окно; свободен тот, у кого загрузка
// нулевая
// При равной загрузке побеждает меньший ID, чтобы выбор был детерминированным
func (uc *UseCase) pickLeastLoaded(ctx context.Context, candidates []int64, window domain.Interval) (int64, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: staffID or candidateStaffIDs required", ErrInvalidInput)
	}

	load, err := uc.assignmentRepo.CountActiveInWindow(ctx, candidates, window.Start, window.End)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count staff load: %v", ErrInternal, err)
	}

	sorted := make([]int64, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		if load[id] == 0 {
			return id, nil
		}
	}
	return 0, ErrNoCandidates
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.StaffID < 0 {
		return fmt.Errorf("%w: staffID must not be negative", ErrInvalidInput)
	}
	if req.StaffID == 0 && len(req.CandidateStaffIDs) == 0 {
		return fmt.Errorf("%w: staffID or candidateStaffIDs required", ErrInvalidInput)
	}
	if _, ok := domain.ValidStaffRole(string(req.Role)); !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}
	if req.AssignedFrom.IsZero() || req.AssignedTo.IsZero() {
		return fmt.Errorf("%w: assignment window is required", ErrInvalidInput)
	}
	if req.ResourceType != nil {
		if _, ok := domain.ValidResourceType(string(*req.ResourceType)); !ok {
			return fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, *req.ResourceType)
		}
	}
	return nil
}
