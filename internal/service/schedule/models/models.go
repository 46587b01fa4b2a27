package models

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// AvailabilitySlot витринный слот в ответе API
type AvailabilitySlot struct {
	SlotID        int64  `json:"slot_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Category      string `json:"category"`
	PriorityOrder int    `json:"priority_order"`
}

// AvailabilityResponse доступные для записи слоты филиала на дату
type AvailabilityResponse struct {
	BranchID int64              `json:"branch_id"`
	Date     string             `json:"date"`
	Slots    []AvailabilitySlot `json:"slots"`
}

// GridSlot слот сетки бокса в ответе API
type GridSlot struct {
	SlotID    int64  `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	BookingID *int64 `json:"booking_id,omitempty"`
	AtRisk    bool   `json:"at_risk,omitempty"`
}

// GridResponse сетка расписания бокса на дату
type GridResponse struct {
	BayID int64      `json:"bay_id"`
	Date  string     `json:"date"`
	Slots []GridSlot `json:"slots"`
}

// QueueEntry запись очереди в ответе API
type QueueEntry struct {
	EntryID          int64      `json:"entry_id"`
	BookingID        int64      `json:"booking_id"`
	Position         int        `json:"position"`
	EstimatedStartAt *time.Time `json:"estimated_start_at,omitempty"`
	EstimatedEndAt   *time.Time `json:"estimated_end_at,omitempty"`
}

// QueueResponse голова очереди бокса на дату
type QueueResponse struct {
	BayID   int64        `json:"bay_id"`
	Date    string       `json:"date"`
	Entries []QueueEntry `json:"entries"`
}

// FromDomainServiceSlots конвертирует витринные слоты в ответ API
func FromDomainServiceSlots(branchID int64, date time.Time, slots []*domain.ServiceSlot) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		BranchID: branchID,
		Date:     date.Format(domain.DateFormat),
		Slots:    make([]AvailabilitySlot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, AvailabilitySlot{
			SlotID:        s.ID,
			StartTime:     s.StartTime.String(),
			EndTime:       s.EndTime.String(),
			Category:      string(s.Category),
			PriorityOrder: s.PriorityOrder,
		})
	}
	return resp
}

// FromDomainGrid конвертирует слоты сетки бокса в ответ API
func FromDomainGrid(bayID int64, date time.Time, slots []*domain.BaySchedule) *GridResponse {
	resp := &GridResponse{
		BayID: bayID,
		Date:  date.Format(domain.DateFormat),
		Slots: make([]GridSlot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, GridSlot{
			SlotID:    s.ID,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Status:    string(s.Status),
			BookingID: s.BookingID,
			AtRisk:    s.AtRisk,
		})
	}
	return resp
}

// FromDomainQueue конвертирует записи очереди в ответ API
func FromDomainQueue(bayID int64, date time.Time, entries []*domain.BayQueueEntry) *QueueResponse {
	resp := &QueueResponse{
		BayID:   bayID,
		Date:    date.Format(domain.DateFormat),
		Entries: make([]QueueEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, QueueEntry{
			EntryID:          e.ID,
			BookingID:        e.BookingID,
			Position:         e.Position,
			EstimatedStartAt: e.EstimatedStartAt,
			EstimatedEndAt:   e.EstimatedEndAt,
		})
	}
	return resp
}
