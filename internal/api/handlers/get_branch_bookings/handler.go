package get_branch_bookings

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidBayID    = "некорректный ID бокса"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus   = "некорректный статус бронирования"
)

type BookingService interface {
	GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/bookings
// Query параметры: bay_id, start_date, end_date, status, include_inactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	req := &models.GetBranchBookingsRequest{BranchID: branchID}
	query := r.URL.Query()

	if raw := query.Get("bay_id"); raw != "" {
		bayID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidBayID)
			return
		}
		req.BayID = &bayID
	}
	if raw := query.Get("start_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &date
	}
	if raw := query.Get("end_date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &date
	}
	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}
	req.IncludeInactive = query.Get("include_inactive") == "true"

	result, err := h.service.GetBranchBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /branches/{id}/bookings - Invalid status: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBranchID)

		default:
			h.logger.Error("GET /branches/{id}/bookings - Failed: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
