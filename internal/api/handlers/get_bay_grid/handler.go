package get_bay_grid

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/internal/service/schedule"
	"github.com/m04kA/VSC-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidBayID = "некорректный ID бокса"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type ScheduleService interface {
	GetBayGrid(ctx context.Context, bayID int64, date time.Time) (*models.GridResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bays/{bayId}/schedule?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bayID, err := strconv.ParseInt(vars["bayId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bays/{id}/schedule - Invalid bay ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /bays/{id}/schedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetBayGrid(r.Context(), bayID, date)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBayID)

		default:
			h.logger.Error("GET /bays/{id}/schedule - Failed: bay_id=%d, error=%v", bayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
