package slots

import (
	"context"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
)

// ServiceSlotRepository интерфейс репозитория слотов филиала
type ServiceSlotRepository interface {
	Create(ctx context.Context, slot *domain.ServiceSlot) (*domain.ServiceSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceSlot, error)
	Update(ctx context.Context, slot *domain.ServiceSlot) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
