package domain

import "github.com/shopspring/decimal"

// BasketItem — позиция корзины: ссылка на товар каталога, цена и количество.
type BasketItem struct {
	CatalogItemID int64
	UnitPrice     decimal.Decimal
	Quantity      int32
}

// Basket — корзина покупателя. Источник данных для оформления заказа;
// сама корзина здесь не изменяется.
type Basket struct {
	ID      int64
	BuyerID string
	Items   []BasketItem
}

// IsEmpty сообщает, что в корзине нет ни одной позиции.
func (b Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

// CatalogItemIDs возвращает идентификаторы товаров корзины без дублей,
// в порядке первого появления.
func (b Basket) CatalogItemIDs() []int64 {
	seen := make(map[int64]struct{}, len(b.Items))
	ids := make([]int64, 0, len(b.Items))
	for _, item := range b.Items {
		if _, ok := seen[item.CatalogItemID]; ok {
			continue
		}
		seen[item.CatalogItemID] = struct{}{}
		ids = append(ids, item.CatalogItemID)
	}
	return ids
}

// CatalogItem — карточка товара каталога в объёме, нужном для оформления.
type CatalogItem struct {
	ID         int64
	Name       string
	PictureURI string
}
