package generate_schedule

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	generateSchedule "github.com/m04kA/VSC-SchedulingService/internal/usecase/generate_schedule"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBayID       = "некорректный ID бокса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgBayNotFound        = "бокс не найден"
	msgBayNotOperable     = "бокс не принимает записи"
	msgScheduleExists     = "расписание на эту дату уже сгенерировано"
	msgInvalidInput       = "некорректные параметры генерации"
)

type GenerateScheduleUseCase interface {
	Execute(ctx context.Context, req *generateSchedule.Request) (*generateSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// GenerateScheduleRequest HTTP тело запроса на генерацию расписания
type GenerateScheduleRequest struct {
	Date              string `json:"date"`
	OpenTime          string `json:"open_time"`
	CloseTime         string `json:"close_time"`
	SlotLengthMinutes int    `json:"slot_length_minutes,omitempty"`
}

type Handler struct {
	useCase GenerateScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GenerateScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bays/{bayId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bayID, err := strconv.ParseInt(vars["bayId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bays/{id}/schedule - Invalid bay ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBayID)
		return
	}

	var req GenerateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bays/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	openTime, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	closeTime, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &generateSchedule.Request{
		BayID:             bayID,
		Date:              date,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		SlotLengthMinutes: req.SlotLengthMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, generateSchedule.ErrBayNotFound):
			h.logger.Warn("POST /bays/{id}/schedule - Bay not found: bay_id=%d", bayID)
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, generateSchedule.ErrBayNotOperable):
			h.logger.Warn("POST /bays/{id}/schedule - Bay not operable: bay_id=%d", bayID)
			handlers.RespondConflict(w, msgBayNotOperable)

		case errors.Is(err, generateSchedule.ErrScheduleExists):
			h.logger.Warn("POST /bays/{id}/schedule - Schedule exists: bay_id=%d, date=%s", bayID, req.Date)
			handlers.RespondConflict(w, msgScheduleExists)

		case errors.Is(err, generateSchedule.ErrInvalidInput):
			h.logger.Warn("POST /bays/{id}/schedule - Invalid input: bay_id=%d, error=%v", bayID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bays/{id}/schedule - Failed: bay_id=%d, error=%v", bayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bays/{id}/schedule - Generated %d slots: bay_id=%d, date=%s",
		len(result.Slots), bayID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
