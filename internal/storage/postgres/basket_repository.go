package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type basketRepository struct {
	db *sql.DB
}

// NewBasketRepository создаёт PostgreSQL-реализацию BasketRepository.
// Корзины здесь только читаются: их наполнением занимается basket-сервис.
func NewBasketRepository(store *Store) domain.BasketRepository {
	return &basketRepository{db: store.DB()}
}

// GetWithItems возвращает корзину с позициями или ErrBasketNotFound.
func (r *basketRepository) GetWithItems(ctx context.Context, basketID int64) (domain.Basket, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var basket domain.Basket
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id
		FROM baskets
		WHERE id = $1
	`, basketID).Scan(&basket.ID, &basket.BuyerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Basket{}, domain.ErrBasketNotFound
		}
		return domain.Basket{}, fmt.Errorf("select basket: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT catalog_item_id, unit_price, quantity
		FROM basket_items
		WHERE basket_id = $1
		ORDER BY id ASC
	`, basketID)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("load basket items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.BasketItem, 0)
	for rows.Next() {
		var item domain.BasketItem
		if err := rows.Scan(&item.CatalogItemID, &item.UnitPrice, &item.Quantity); err != nil {
			return domain.Basket{}, fmt.Errorf("scan basket item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Basket{}, fmt.Errorf("iterate basket items: %w", err)
	}
	basket.Items = items

	return basket, nil
}

var _ domain.BasketRepository = (*basketRepository)(nil)
