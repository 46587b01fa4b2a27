package generate_schedule

import (
	"time"

	"github.com/m04kA/VSC-SchedulingService/pkg/types"
)

// Request запрос на генерацию сетки расписания бокса на день
// SlotLengthMinutes задает длину слота; при нуле используется длина из
// конфигурации сервиса
type Request struct {
	BayID             int64
	Date              time.Time
	OpenTime          types.TimeString
	CloseTime         types.TimeString
	SlotLengthMinutes int
}

// GeneratedSlot одно окно сгенерированной сетки
type GeneratedSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response результат генерации
type Response struct {
	BayID int64
	Date  time.Time
	Slots []GeneratedSlot
}
