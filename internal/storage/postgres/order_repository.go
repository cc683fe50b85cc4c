package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Add сохраняет заказ и его позиции одной транзакцией, присваивая идентификаторы.
func (r *orderRepository) Add(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	stored := order
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Items = make([]domain.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)
	for i := range stored.Items {
		if stored.Items[i].ID == "" {
			stored.Items[i].ID = uuid.NewString()
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, buyer_id, ship_street, ship_city, ship_state, ship_country, ship_zip, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		stored.ID, stored.BuyerID,
		stored.ShipTo.Street, stored.ShipTo.City, stored.ShipTo.State,
		stored.ShipTo.Country, stored.ShipTo.ZipCode,
		stored.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for position, item := range stored.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, position, catalog_item_id, product_name, picture_uri, unit_price, quantity
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			item.ID, stored.ID, position, item.CatalogItemID,
			item.ProductName, item.PictureURI, item.UnitPrice, item.Quantity,
		); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit add order: %w", err)
	}

	return stored, nil
}

// Get возвращает заказ с позициями или ErrOrderNotFound.
func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, ship_street, ship_city, ship_state, ship_country, ship_zip, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.BuyerID,
		&order.ShipTo.Street, &order.ShipTo.City, &order.ShipTo.State,
		&order.ShipTo.Country, &order.ShipTo.ZipCode,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

// ListByBuyer возвращает заказы покупателя, ограничивая выборку limit (если >0).
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT id, buyer_id, ship_street, ship_city, ship_state, ship_country, ship_zip, created_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", buyerID, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, buyerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.BuyerID,
			&order.ShipTo.Street, &order.ShipTo.City, &order.ShipTo.State,
			&order.ShipTo.Country, &order.ShipTo.ZipCode,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, catalog_item_id, product_name, picture_uri, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.CatalogItemID, &item.ProductName,
			&item.PictureURI, &item.UnitPrice, &item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
