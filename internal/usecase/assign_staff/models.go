package assign_staff

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// Request запрос на назначение сотрудника на бронирование
// Если StaffID задан, назначается именно он (с проверкой конфликтов окон).
// Если StaffID нулевой, сотрудник выбирается из CandidateStaffIDs: берется
// наименее загруженный в окне кандидат без конфликтов
type Request struct {
	BookingID int64
	StaffID   int64
	Role      domain.StaffRole

	AssignedFrom time.Time
	AssignedTo   time.Time

	CandidateStaffIDs []int64

	ResourceType *domain.ResourceType
	ResourceID   *int64
	ResourceName *string
}

// Response результат назначения
type Response struct {
	AssignmentID int64
	BookingID    int64
	StaffID      int64
	Role         domain.StaffRole
	AssignedFrom time.Time
	AssignedTo   time.Time
	Status       domain.AssignmentStatus
}
