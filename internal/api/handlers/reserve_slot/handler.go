package reserve_slot

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/VSC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	reserveSlot "github.com/m04kA/VSC-SchedulingService/internal/usecase/reserve_slot"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidBookingID      = "некорректный ID бронирования"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный формат времени, ожидается HH:MM"
	msgBookingNotFound       = "бронирование не найдено"
	msgBayNotFound           = "бокс не найден"
	msgBayNotOperable        = "бокс не принимает записи"
	msgSlotConflict          = "окно пересекается с занятым слотом бокса"
	msgAlreadyReserved       = "у бронирования уже есть активный слот"
	msgInvalidState          = "статус бронирования не допускает резервирование"
	msgServiceSlotNotFound   = "витринный слот не найден"
	msgServiceSlotNotBooked  = "витринный слот недоступен для записи"
	msgInvalidInput          = "некорректные параметры резервирования"
)

type ReserveSlotUseCase interface {
	Execute(ctx context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ReserveSlotRequest HTTP тело запроса на резервирование окна
type ReserveSlotRequest struct {
	BayID         int64  `json:"bay_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	ServiceSlotID *int64 `json:"service_slot_id,omitempty"`
}

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reserve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	endTime, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reserveSlot.Request{
		BookingID:     bookingID,
		BayID:         req.BayID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
		ServiceSlotID: req.ServiceSlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reserve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reserveSlot.ErrBayNotFound):
			h.logger.Warn("POST /bookings/{id}/reserve - Bay not found: bay_id=%d", req.BayID)
			handlers.RespondNotFound(w, msgBayNotFound)

		case errors.Is(err, reserveSlot.ErrBayNotOperable):
			h.logger.Warn("POST /bookings/{id}/reserve - Bay not operable: bay_id=%d", req.BayID)
			handlers.RespondConflict(w, msgBayNotOperable)

		case errors.Is(err, reserveSlot.ErrSlotConflict):
			h.logger.Warn("POST /bookings/{id}/reserve - Slot conflict: booking_id=%d, bay_id=%d, window=%s-%s",
				bookingID, req.BayID, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, reserveSlot.ErrAlreadyReserved):
			h.logger.Warn("POST /bookings/{id}/reserve - Already reserved: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyReserved)

		case errors.Is(err, reserveSlot.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/reserve - Invalid state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, reserveSlot.ErrServiceSlotNotFound):
			handlers.RespondNotFound(w, msgServiceSlotNotFound)

		case errors.Is(err, reserveSlot.ErrServiceSlotNotBookable):
			handlers.RespondConflict(w, msgServiceSlotNotBooked)

		case errors.Is(err, reserveSlot.ErrInvalidInput), errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("POST /bookings/{id}/reserve - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/reserve - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reserve - Slot reserved: booking_id=%d, slot_id=%d", bookingID, result.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
