package domain

import "time"

// BayState operability state of a physical service bay
type BayState string

const (
	BayStateActive      BayState = "active"
	BayStateMaintenance BayState = "maintenance"
	BayStateClosed      BayState = "closed"
	BayStateInactive    BayState = "inactive"
)

// ServiceBay a physical work position at a branch
type ServiceBay struct {
	ID           int64
	BranchID     int64
	Name         string
	Code         string
	State        BayState
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOperable returns true if the bay may be allocated a new slot or queue entry
// Bays under maintenance, closed or inactive accept no new work
func (b *ServiceBay) IsOperable() bool {
	return b.State == BayStateActive
}

// ValidBayState проверяет, что строка является известным состоянием бокса
func ValidBayState(s string) (BayState, bool) {
	switch BayState(s) {
	case BayStateActive, BayStateMaintenance, BayStateClosed, BayStateInactive:
		return BayState(s), true
	}
	return "", false
}
