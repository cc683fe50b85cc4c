package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// catalogRepositoryInMemory — простая in-memory реализация CatalogRepository.
type catalogRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[int64]domain.CatalogItem
}

// CatalogRepository расширяет доменный порт операцией Seed:
// каталог здесь только читается, наполняется он извне.
type CatalogRepository interface {
	domain.CatalogRepository
	Seed(items ...domain.CatalogItem)
}

// NewCatalogRepository возвращает in-memory репозиторий каталога.
func NewCatalogRepository() CatalogRepository {
	return &catalogRepositoryInMemory{
		items: make(map[int64]domain.CatalogItem),
	}
}

// Seed добавляет или перезаписывает каталожные карточки.
func (r *catalogRepositoryInMemory) Seed(items ...domain.CatalogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.items[item.ID] = item
	}
}

// ListByIDs возвращает найденные карточки; отсутствующие идентификаторы
// просто не попадают в результат.
func (r *catalogRepositoryInMemory) ListByIDs(_ context.Context, ids []int64) ([]domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CatalogItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, item)
		}
	}
	return result, nil
}

var _ domain.CatalogRepository = (*catalogRepositoryInMemory)(nil)
