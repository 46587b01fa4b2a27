package enqueue_booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	enqueueBooking "github.com/m04kA/VSC-SchedulingService/internal/usecase/enqueue_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBookingNotFound    = "бронирование не найдено"
	msgBayNotFound        = "бокс не найден"
	msgBayNotOperable     = "бокс не принимает записи в очередь"
	msgAlreadyQueued      = "бронирование уже стоит в очереди этого бокса"
	msgInvalidState       = "статус бронирования не допускает постановку в очередь"
	msgQueueIntegrity     = "очередь бокса в некорректном состоянии"
)

type EnqueueBookingUseCase interface {
	Execute(ctx context.Context, req *enqueueBooking.Request) (*enqueueBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// EnqueueBookingRequest HTTP тело запроса на постановку в очередь
type EnqueueBookingRequest struct {
	BayID int64  `json:"bay_id"`
	Date  string `json:"date"`
}

type Handler struct {
	useCase EnqueueBookingUseCase
	logger  Logger
}

func NewHandler(useCase EnqueueBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/enqueue
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/enqueue - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req EnqueueBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/enqueue - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &enqueueBooking.Request{
		BookingID: bookingID,
		BayID:     req.BayID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, enqueueBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/enqueue - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, enqueueBooking.ErrBayNotFound):
			h.logger.Warn("POST /bookings/{id}/enqueue - Bay not found: bay_id=%d", req.BayID)
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, enqueueBooking.ErrBayNotOperable):
			h.logger.Warn("POST /bookings/{id}/enqueue - Bay not operable: bay_id=%d", req.BayID)
			handlers.RespondConflict(w, msgBayNotOperable)

		case errors.Is(err, enqueueBooking.ErrAlreadyQueued):
			h.logger.Warn("POST /bookings/{id}/enqueue - Already queued: booking_id=%d, bay_id=%d", bookingID, req.BayID)
			handlers.RespondConflict(w, msgAlreadyQueued)

		case errors.Is(err, enqueueBooking.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/enqueue - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, domain.ErrQueueIntegrity):
			h.logger.Error("POST /bookings/{id}/enqueue - Queue integrity: bay_id=%d, error=%v", req.BayID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgQueueIntegrity)

		case errors.Is(err, enqueueBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/enqueue - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/enqueue - Queued: booking_id=%d, position=%d", bookingID, result.Position)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
