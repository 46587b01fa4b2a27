package list_bays

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

const msgInvalidBranchID = "некорректный ID филиала"

type BayService interface {
	ListByBranch(ctx context.Context, branchID int64) (*models.BayListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
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

// Handle GET /api/v1/branches/{branchId}/bays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bays - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	result, err := h.service.ListByBranch(r.Context(), branchID)
	if err != nil {
		switch {
		case errors.Is(err, bays.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBranchID)

		default:
			h.logger.Error("GET /branches/{id}/bays - Failed: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
