package update_slot_state

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots"
	"github.com/m04kA/VSC-SchedulingService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidAction      = "некорректное действие, ожидается close или open"
	msgSlotNotFound       = "слот не найден"
	msgInvalidState       = "статус слота не допускает операцию"
)

const (
	actionClose = "close"
	actionOpen  = "open"
)

type SlotService interface {
	Close(ctx context.Context, id int64, reason string) (*models.SlotResponse, error)
	Open(ctx context.Context, id int64) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// UpdateSlotStateRequest HTTP тело запроса на закрытие/открытие слота
type UpdateSlotStateRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
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

// Handle PATCH /api/v1/slots/{slotId}/state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /slots/{id}/state - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateSlotStateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id}/state - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *models.SlotResponse
	switch req.Action {
	case actionClose:
		result, err = h.service.Close(r.Context(), slotID, req.Reason)
	case actionOpen:
		result, err = h.service.Open(r.Context(), slotID)
	default:
		h.logger.Warn("PATCH /slots/{id}/state - Unknown action %q: slot_id=%d", req.Action, slotID)
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/{id}/state - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PATCH /slots/{id}/state - Invalid input: slot_id=%d, error=%v", slotID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, slots.ErrInvalidState):
			h.logger.Warn("PATCH /slots/{id}/state - Invalid state: slot_id=%d, error=%v", slotID, err)
			handlers.RespondConflict(w, msgInvalidState)

		default:
			h.logger.Error("PATCH /slots/{id}/state - Failed: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/{id}/state - Slot updated: slot_id=%d, status=%s", slotID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
