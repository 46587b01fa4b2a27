package domain

// Default scheduling policy values
const (
	DefaultSlotLengthMinutes               = 60
	DefaultEarlyCompletionThresholdMinutes = 10
	DefaultQueueEstimateMinutes            = 30 // fallback when a booking carries no duration
)

// Business validation constants
const (
	MinSlotLengthMinutes        = 15
	MaxSlotLengthMinutes        = 480 // 8 hours
	MaxQueuePeekEntries         = 50
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CommittedSlotStatuses статусы слотов, занимающих окно бокса
// Используется детектором конфликтов: только эти слоты участвуют в проверке пересечений
var CommittedSlotStatuses = []SlotStatus{
	SlotStatusBooked,
	SlotStatusInProgress,
}

// ActiveAssignmentStatuses статусы назначений, занимающих окно сотрудника
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusAssigned,
	AssignmentStatusInProgress,
}

// TerminalBookingStatuses терминальные статусы бронирования
// После них никакие мутации бокса/слота для бронирования не допускаются
var TerminalBookingStatuses = []BookingStatus{
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusNoShow,
}
