package update_bay_state

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bays"
	"github.com/m04kA/VSC-SchedulingService/internal/service/bays/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBayID       = "некорректный ID бокса"
	msgInvalidState       = "некорректное состояние бокса"
	msgBayNotFound        = "бокс не найден"
)

type BayService interface {
	UpdateState(ctx context.Context, id int64, state string) (*models.BayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// UpdateBayStateRequest HTTP тело запроса на смену состояния бокса
type UpdateBayStateRequest struct {
	State string `json:"state"`
}

type Handler struct {
	service BayService
	logger  Logger
}

func NewHandler(service BayService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bays/{bayId}/state
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bayID, err := strconv.ParseInt(vars["bayId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bays/{id}/state - Invalid bay ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayID)
		return
	}

	var req UpdateBayStateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bays/{id}/state - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateState(r.Context(), bayID, req.State)
	if err != nil {
		switch {
		case errors.Is(err, bays.ErrBayNotFound):
			h.logger.Warn("PATCH /bays/{id}/state - Bay not found: bay_id=%d", bayID)
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, bays.ErrInvalidState):
			h.logger.Warn("PATCH /bays/{id}/state - Invalid state %q: bay_id=%d", req.State, bayID)
			handlers.RespondBadRequest(w, msgInvalidState)

		default:
			h.logger.Error("PATCH /bays/{id}/state - Failed: bay_id=%d, error=%v", bayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bays/{id}/state - Bay state updated: bay_id=%d, state=%s", bayID, result.State)
	handlers.RespondJSON(w, http.StatusOK, result)
}
