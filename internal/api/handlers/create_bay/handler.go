package create_bay

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
	msgInvalidBranchID    = "некорректный ID филиала"
	msgInvalidInput       = "некорректные данные бокса"
)

type BayService interface {
	Create(ctx context.Context, req *models.CreateBayRequest) (*models.BayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CreateBayRequest HTTP тело запроса на создание бокса
type CreateBayRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	DisplayOrder int    `json:"display_order"`
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

// Handle POST /api/v1/branches/{branchId}/bays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /branches/{id}/bays - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	var req CreateBayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /branches/{id}/bays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateBayRequest{
		BranchID:     branchID,
		Name:         req.Name,
		Code:         req.Code,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, bays.ErrInvalidInput):
			h.logger.Warn("POST /branches/{id}/bays - Invalid input: branch_id=%d, error=%v", branchID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /branches/{id}/bays - Failed: branch_id=%d, error=%v", branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /branches/{id}/bays - Bay created: bay_id=%d, branch_id=%d", result.ID, branchID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
