package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// basketRepositoryInMemory — простая in-memory реализация BasketRepository.
type basketRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[int64]domain.Basket
}

// BasketRepository расширяет доменный порт операцией Seed для локальной
// разработки и тестов: наполнение корзин принадлежит внешнему сервису.
type BasketRepository interface {
	domain.BasketRepository
	Seed(basket domain.Basket)
}

// NewBasketRepository возвращает in-memory репозиторий корзин.
func NewBasketRepository() BasketRepository {
	return &basketRepositoryInMemory{
		items: make(map[int64]domain.Basket),
	}
}

// Seed сохраняет корзину целиком, перезаписывая существующую.
func (r *basketRepositoryInMemory) Seed(basket domain.Basket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[basket.ID] = copyBasket(basket)
}

// GetWithItems возвращает корзину с позициями или ErrBasketNotFound.
func (r *basketRepositoryInMemory) GetWithItems(_ context.Context, basketID int64) (domain.Basket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	basket, ok := r.items[basketID]
	if !ok {
		return domain.Basket{}, domain.ErrBasketNotFound
	}
	return copyBasket(basket), nil
}

// copyBasket отдаёт копию, чтобы избежать непредсказуемых мутаций извне.
func copyBasket(basket domain.Basket) domain.Basket {
	out := basket
	out.Items = make([]domain.BasketItem, len(basket.Items))
	copy(out.Items, basket.Items)
	return out
}

var _ domain.BasketRepository = (*basketRepositoryInMemory)(nil)
