package create_service_slot

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots/models"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBranchID    = "некорректный ID филиала"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные слота"
)

type SlotService interface {
	Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CreateSlotRequest HTTP тело запроса на создание слота филиала
type CreateSlotRequest struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Category      string `json:"category,omitempty"`
	PriorityOrder int    `json:"priority_order,omitempty"`
}

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/branches/{branchId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /branches/{id}/slots - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /branches/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /branches/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateSlotRequest{
		BranchID:      branchID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		Category:      req.Category,
		PriorityOrder: req.PriorityOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /branches/{id}/slots - Invalid input: branch_id=%d, error=%v", branchID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /branches/{id}/slots - Failed: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /branches/{id}/slots - Slot created: slot_id=%d, branch_id=%d", result.ID, branchID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
