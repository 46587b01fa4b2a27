package models

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// CreateSlotRequest запрос на создание слота филиала
type CreateSlotRequest struct {
	BranchID      int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	Category      string
	PriorityOrder int
}

// SlotResponse слот филиала в ответе API
type SlotResponse struct {
	ID            int64            `json:"id"`
	BranchID      int64            `json:"branch_id"`
	Date          string           `json:"date"`
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	Category      string           `json:"category"`
	Status        string           `json:"status"`
	BookingID     *int64           `json:"booking_id,omitempty"`
	PriorityOrder int              `json:"priority_order"`
	CloseReason   *string          `json:"close_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// FromDomainSlot конвертирует domain модель в ответ API
func FromDomainSlot(s *domain.ServiceSlot) *SlotResponse {
	return &SlotResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		Date:          s.Date.Format(domain.DateFormat),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Category:      string(s.Category),
		Status:        string(s.Status),
		BookingID:     s.BookingID,
		PriorityOrder: s.PriorityOrder,
		CloseReason:   s.CloseReason,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
