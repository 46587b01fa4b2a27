package assign_staff

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	assignStaff "github.com/m04kA/VSC-SchedulingService/internal/usecase/assign_staff"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgBookingNotFound    = "бронирование не найдено"
	msgStaffConflict      = "окно пересекается с активным назначением сотрудника"
	msgNoCandidates       = "нет свободных сотрудников в указанном окне"
	msgInvalidState       = "статус бронирования не допускает назначение"
	msgInvalidInput       = "некорректные параметры назначения"
)

type AssignStaffUseCase interface {
	Execute(ctx context.Context, req *assignStaff.Request) (*assignStaff.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AssignStaffRequest HTTP тело запроса на назначение
type AssignStaffRequest struct {
	StaffID           int64     `json:"staff_id,omitempty"`
	CandidateStaffIDs []int64   `json:"candidate_staff_ids,omitempty"`
	Role              string    `json:"role"`
	AssignedFrom      time.Time `json:"assigned_from"`
	AssignedTo        time.Time `json:"assigned_to"`
	ResourceType      *string   `json:"resource_type,omitempty"`
	ResourceID        *int64    `json:"resource_id,omitempty"`
	ResourceName      *string   `json:"resource_name,omitempty"`
}

type Handler struct {
	useCase AssignStaffUseCase
	logger  Logger
}

func NewHandler(useCase AssignStaffUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/assignments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/assignments - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AssignStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/assignments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := &assignStaff.Request{
		BookingID:         bookingID,
		StaffID:           req.StaffID,
		Role:              domain.StaffRole(req.Role),
		AssignedFrom:      req.AssignedFrom,
		AssignedTo:        req.AssignedTo,
		CandidateStaffIDs: req.CandidateStaffIDs,
		ResourceID:        req.ResourceID,
		ResourceName:      req.ResourceName,
	}
	if req.ResourceType != nil {
		resourceType := domain.ResourceType(*req.ResourceType)
		useCaseReq.ResourceType = &resourceType
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, assignStaff.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/assignments - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, assignStaff.ErrStaffConflict):
			h.logger.Warn("POST /bookings/{id}/assignments - Staff conflict: booking_id=%d, staff_id=%d",
				bookingID, req.StaffID)
			handlers.RespondConflict(w, msgStaffConflict)

		case errors.Is(err, assignStaff.ErrNoCandidates):
			h.logger.Warn("POST /bookings/{id}/assignments - No candidates: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNoCandidates)

		case errors.Is(err, assignStaff.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/assignments - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, assignStaff.ErrInvalidInput), errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("POST /bookings/{id}/assignments - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/assignments - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/assignments - Assigned: assignment_id=%d, staff_id=%d",
		result.AssignmentID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
