package complete_service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	completeService "github.com/m04kA/VSC-SchedulingService/internal/usecase/complete_service"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgBookingNotFound    = "бронирование не найдено"
	msgSlotNotFound       = "у бронирования нет слота в работе"
	msgInvalidState       = "статус бронирования не допускает завершение"
	msgQueueIntegrity     = "очередь бокса в некорректном состоянии"
)

type CompleteServiceUseCase interface {
	Execute(ctx context.Context, req *completeService.Request) (*completeService.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// CompleteServiceRequest HTTP тело запроса на завершение обслуживания
// Пустое actual_end_at означает "сейчас"
type CompleteServiceRequest struct {
	ActualEndAt *time.Time `json:"actual_end_at,omitempty"`
}

type Handler struct {
	useCase CompleteServiceUseCase
	logger  Logger
}

func NewHandler(useCase CompleteServiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CompleteServiceRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/complete - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	actualEnd := time.Now()
	if req.ActualEndAt != nil {
		actualEnd = *req.ActualEndAt
	}

	result, err := h.useCase.Execute(r.Context(), &completeService.Request{
		BookingID:   bookingID,
		ActualEndAt: actualEnd,
	})
	if err != nil {
		switch {
		case errors.Is(err, completeService.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/complete - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, completeService.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/{id}/complete - No slot in progress: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotFound)

		case errors.Is(err, completeService.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/complete - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, domain.ErrQueueIntegrity):
			h.logger.Error("POST /bookings/{id}/complete - Queue integrity: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgQueueIntegrity)

		case errors.Is(err, completeService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/complete - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/complete - Completed: booking_id=%d, early=%dmin, promoted=%v",
		bookingID, result.EarlyMinutes, result.Promoted != nil)
	handlers.RespondJSON(w, http.StatusOK, result)
}
