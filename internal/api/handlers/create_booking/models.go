package create_booking

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/service/bookings/models"
)

// CreateBookingRequest HTTP тело запроса на создание бронирования
type CreateBookingRequest struct {
	BranchID int64 `json:"branch_id"`

	CustomerID    *int64  `json:"customer_id,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`

	VehicleID    *int64  `json:"vehicle_id,omitempty"`
	VehiclePlate *string `json:"vehicle_plate,omitempty"`
	VehicleBrand *string `json:"vehicle_brand,omitempty"`
	VehicleModel *string `json:"vehicle_model,omitempty"`

	PreferredStartAt         *time.Time `json:"preferred_start_at,omitempty"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	TotalPrice               float64    `json:"total_price"`
	WalkIn                   bool       `json:"walk_in"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBookingRequest) ToServiceRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		BranchID:                 r.BranchID,
		CustomerID:               r.CustomerID,
		CustomerName:             r.CustomerName,
		CustomerPhone:            r.CustomerPhone,
		CustomerEmail:            r.CustomerEmail,
		VehicleID:                r.VehicleID,
		VehiclePlate:             r.VehiclePlate,
		VehicleBrand:             r.VehicleBrand,
		VehicleModel:             r.VehicleModel,
		PreferredStartAt:         r.PreferredStartAt,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		TotalPrice:               r.TotalPrice,
		WalkIn:                   r.WalkIn,
	}
}
