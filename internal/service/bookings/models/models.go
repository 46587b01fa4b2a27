package models

import (
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// CreateBookingRequest запрос на создание бронирования
// Ссылки на клиента и автомобиль опциональны: гостевые и walk-in бронирования
// несут только снапшот контактных данных
type CreateBookingRequest struct {
	BranchID int64

	CustomerID    *int64
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	VehicleID    *int64
	VehiclePlate *string
	VehicleBrand *string
	VehicleModel *string

	PreferredStartAt         *time.Time
	EstimatedDurationMinutes int
	TotalPrice               float64
	WalkIn                   bool
}

// GetBranchBookingsRequest запрос списка бронирований филиала
type GetBranchBookingsRequest struct {
	BranchID        int64
	BayID           *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	IncludeInactive bool
}

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	BranchID int64  `json:"branch_id"`
	BayID    *int64 `json:"bay_id,omitempty"`

	CustomerID    *int64  `json:"customer_id,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`

	VehicleID    *int64  `json:"vehicle_id,omitempty"`
	VehiclePlate *string `json:"vehicle_plate,omitempty"`
	VehicleBrand *string `json:"vehicle_brand,omitempty"`
	VehicleModel *string `json:"vehicle_model,omitempty"`

	PreferredStartAt *time.Time `json:"preferred_start_at,omitempty"`
	ScheduledStartAt *time.Time `json:"scheduled_start_at,omitempty"`
	ScheduledEndAt   *time.Time `json:"scheduled_end_at,omitempty"`
	ActualStartAt    *time.Time `json:"actual_start_at,omitempty"`
	ActualEndAt      *time.Time `json:"actual_end_at,omitempty"`

	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	TotalPrice               float64 `json:"total_price"`
	PaymentStatus            string  `json:"payment_status"`
	Type                     string  `json:"type"`
	Status                   string  `json:"status"`

	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// ToDomainFilter конвертирует запрос списка в domain фильтр
func (r *GetBranchBookingsRequest) ToDomainFilter() (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{
		BranchID:        r.BranchID,
		BayID:           r.BayID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}
	if r.Status != nil {
		status, ok := domain.ValidBookingStatus(*r.Status)
		if !ok {
			return domain.BranchBookingsFilter{}, fmt.Errorf("unknown status %q", *r.Status)
		}
		filter.Status = &status
	}
	return filter, nil
}

// FromDomainBooking конвертирует domain модель в ответ API
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                       b.ID,
		Code:                     b.Code,
		BranchID:                 b.BranchID,
		BayID:                    b.BayID,
		CustomerID:               b.CustomerID,
		CustomerName:             b.CustomerName,
		CustomerPhone:            b.CustomerPhone,
		CustomerEmail:            b.CustomerEmail,
		VehicleID:                b.VehicleID,
		VehiclePlate:             b.VehiclePlate,
		VehicleBrand:             b.VehicleBrand,
		VehicleModel:             b.VehicleModel,
		PreferredStartAt:         b.PreferredStartAt,
		ScheduledStartAt:         b.ScheduledStartAt,
		ScheduledEndAt:           b.ScheduledEndAt,
		ActualStartAt:            b.ActualStartAt,
		ActualEndAt:              b.ActualEndAt,
		EstimatedDurationMinutes: b.EstimatedDurationMinutes,
		TotalPrice:               b.TotalPrice,
		PaymentStatus:            string(b.PaymentStatus),
		Type:                     string(b.Type),
		Status:                   string(b.Status),
		CancellationReason:       b.CancellationReason,
		CancelledAt:              b.CancelledAt,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в ответ API
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
