package peek_queue

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
	msgInvalidLimit = "некорректное значение limit"
)

type ScheduleService interface {
	PeekQueue(ctx context.Context, bayID int64, date time.Time, limit int) (*models.QueueResponse, error)
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

// Handle GET /api/v1/bays/{bayId}/queue?date=YYYY-MM-DD&limit=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bayID, err := strconv.ParseInt(vars["bayId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bays/{id}/queue - Invalid bay ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /bays/{id}/queue - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.logger.Warn("GET /bays/{id}/queue - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	result, err := h.service.PeekQueue(r.Context(), bayID, date, limit)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBayID)

		default:
			h.logger.Error("GET /bays/{id}/queue - Failed: bay_id=%d, error=%v", bayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
