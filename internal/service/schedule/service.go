package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/VSC-SchedulingService/internal/domain"
	"github.com/m04kA/VSC-SchedulingService/internal/service/schedule/models"
	"github.com/m04kA/VSC-SchedulingService/pkg/snapcache"
)

const (
	availabilityCacheSize = 512
	gridCacheSize         = 512
	queueCacheSize        = 512

	// queuePeekLimit сколько записей с головы очереди отдается операторам
	queuePeekLimit = 10
)

type cacheKey struct {
	id   int64
	date string
}

// Service сервис display-only чтений расписания: доступность филиала, сетка
// бокса, голова очереди. Ответы отдаются из короткоживущих снапшотов и не
// конкурируют за блокировки с пишущими операциями; после истечения TTL
// следующий читатель получает свежие данные
type Service struct {
	slotRepo     ServiceSlotRepository
	scheduleRepo ScheduleRepository
	queueRepo    QueueRepository
	logger       Logger

	availabilityCache *snapcache.Cache[cacheKey, *models.AvailabilityResponse]
	gridCache         *snapcache.Cache[cacheKey, *models.GridResponse]
	queueCache        *snapcache.Cache[cacheKey, *models.QueueResponse]
}

// NewService создает новый экземпляр сервиса чтений расписания
// ttl задает время жизни снапшотов
func NewService(
	slotRepo ServiceSlotRepository,
	scheduleRepo ScheduleRepository,
	queueRepo QueueRepository,
	ttl time.Duration,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:          slotRepo,
		scheduleRepo:      scheduleRepo,
		queueRepo:         queueRepo,
		logger:            logger,
		availabilityCache: snapcache.New[cacheKey, *models.AvailabilityResponse](availabilityCacheSize, ttl),
		gridCache:         snapcache.New[cacheKey, *models.GridResponse](gridCacheSize, ttl),
		queueCache:        snapcache.New[cacheKey, *models.QueueResponse](queueCacheSize, ttl),
	}
}

// GetAvailability возвращает доступные для записи слоты филиала на дату
// Maintenance слоты никогда не попадают в выдачу
func (s *Service) GetAvailability(ctx context.Context, branchID int64, date time.Time) (*models.AvailabilityResponse, error) {
	if branchID <= 0 {
		return nil, fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	key := cacheKey{id: branchID, date: date.Format(domain.DateFormat)}
	if cached, ok := s.availabilityCache.Get(key); ok {
		return cached, nil
	}

	slots, err := s.slotRepo.ListCustomerBookable(ctx, branchID, date)
	if err != nil {
		s.logger.Error("GetAvailability: repository error for branch=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainServiceSlots(branchID, date, slots)
	s.availabilityCache.Add(key, resp)

	s.logger.Info("GetAvailability: branch=%d, date=%s, %d slots", branchID, key.date, len(resp.Slots))
	return resp, nil
}

// GetBayGrid возвращает сетку расписания бокса на дату, все статусы слотов
func (s *Service) GetBayGrid(ctx context.Context, bayID int64, date time.Time) (*models.GridResponse, error) {
	if bayID <= 0 {
		return nil, fmt.Errorf("%w: bayID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	key := cacheKey{id: bayID, date: date.Format(domain.DateFormat)}
	if cached, ok := s.gridCache.Get(key); ok {
		return cached, nil
	}

	slots, err := s.scheduleRepo.GetByBayAndDate(ctx, bayID, date, nil)
	if err != nil {
		s.logger.Error("GetBayGrid: repository error for bay=%d: %v", bayID, err)
		return nil, fmt.Errorf("%w: GetBayGrid - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainGrid(bayID, date, slots)
	s.gridCache.Add(key, resp)
	return resp, nil
}

// PeekQueue возвращает первые limit записей очереди бокса на дату без блокировок
// limit <= 0 означает лимит по умолчанию, сверху значение ограничено
// domain.MaxQueuePeekEntries
func (s *Service) PeekQueue(ctx context.Context, bayID int64, date time.Time, limit int) (*models.QueueResponse, error) {
	if bayID <= 0 {
		return nil, fmt.Errorf("%w: bayID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if limit <= 0 {
		limit = queuePeekLimit
	} else if limit > domain.MaxQueuePeekEntries {
		limit = domain.MaxQueuePeekEntries
	}

	// Кешируется только снапшот с лимитом по умолчанию, иначе InvalidateBay
	// не смог бы сбросить все варианты ключа
	key := cacheKey{id: bayID, date: date.Format(domain.DateFormat)}
	if limit == queuePeekLimit {
		if cached, ok := s.queueCache.Get(key); ok {
			return cached, nil
		}
	}

	entries, err := s.queueRepo.PeekActive(ctx, bayID, date, limit)
	if err != nil {
		s.logger.Error("PeekQueue: repository error for bay=%d: %v", bayID, err)
		return nil, fmt.Errorf("%w: PeekQueue - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainQueue(bayID, date, entries)
	if limit == queuePeekLimit {
		s.queueCache.Add(key, resp)
	}
	return resp, nil
}

// InvalidateBay сбрасывает снапшоты сетки и очереди бокса на дату
// Вызывается после мутаций, когда оператору нужно мгновенно свежее состояние
func (s *Service) InvalidateBay(bayID int64, date time.Time) {
	key := cacheKey{id: bayID, date: date.Format(domain.DateFormat)}
	s.gridCache.Remove(key)
	s.queueCache.Remove(key)
}
