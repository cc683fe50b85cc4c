package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создаёт PostgreSQL-реализацию CatalogRepository.
func NewCatalogRepository(store *Store) domain.CatalogRepository {
	return &catalogRepository{db: store.DB()}
}

// ListByIDs возвращает каталожные карточки по набору идентификаторов одним
// запросом. Отсутствующие идентификаторы в результат не попадают.
func (r *catalogRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.CatalogItem, error) {
	if len(ids) == 0 {
		return []domain.CatalogItem{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, picture_uri
		FROM catalog_items
		WHERE id IN (%s)
		ORDER BY id ASC
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0, len(ids))
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.PictureURI); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}

	return items, nil
}

var _ domain.CatalogRepository = (*catalogRepository)(nil)
