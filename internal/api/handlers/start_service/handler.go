package start_service

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	startService "github.com/m04kA/VSC-SchedulingService/internal/usecase/start_service"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgSlotNotFound     = "у бронирования нет зарезервированного слота"
	msgInvalidState     = "статус бронирования не допускает начало обслуживания"
)

type StartServiceUseCase interface {
	Execute(ctx context.Context, req *startService.Request) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	useCase StartServiceUseCase
	logger  Logger
}

func NewHandler(useCase StartServiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/start - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := h.useCase.Execute(r.Context(), &startService.Request{BookingID: bookingID}); err != nil {
		switch {
		case errors.Is(err, startService.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/start - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, startService.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/{id}/start - No reserved slot: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotFound)

		case errors.Is(err, startService.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/start - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, startService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		default:
			h.logger.Error("POST /bookings/{id}/start - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/start - Service started: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "in_progress"})
}
