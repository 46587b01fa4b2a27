package models

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// CreateBayRequest запрос на создание бокса
type CreateBayRequest struct {
	BranchID     int64
	Name         string
	Code         string
	DisplayOrder int
}

// BayResponse бокс в ответе API
type BayResponse struct {
	ID           int64     `json:"id"`
	BranchID     int64     `json:"branch_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	State        string    `json:"state"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BayListResponse список боксов филиала
type BayListResponse struct {
	Bays []BayResponse `json:"bays"`
}

// FromDomainBay конвертирует domain модель в ответ API
func FromDomainBay(b *domain.ServiceBay) *BayResponse {
	return &BayResponse{
		ID:           b.ID,
		BranchID:     b.BranchID,
		Name:         b.Name,
		Code:         b.Code,
		State:        string(b.State),
		DisplayOrder: b.DisplayOrder,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// FromDomainBayList конвертирует список domain моделей в ответ API
func FromDomainBayList(bays []*domain.ServiceBay) *BayListResponse {
	resp := &BayListResponse{Bays: make([]BayResponse, 0, len(bays))}
	for _, b := range bays {
		resp.Bays = append(resp.Bays, *FromDomainBay(b))
	}
	return resp
}
