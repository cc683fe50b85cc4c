package domain

import "context"

// BasketRepository — чтение корзин покупателей. Корзины принадлежат
// внешнему basket-сервису, здесь они только читаются.
type BasketRepository interface {
	// GetWithItems возвращает корзину вместе с позициями
	// или ErrBasketNotFound, если её нет.
	GetWithItems(ctx context.Context, basketID int64) (Basket, error)
}

// CatalogRepository — чтение каталожных карточек товаров.
type CatalogRepository interface {
	// ListByIDs возвращает карточки по набору идентификаторов одним запросом.
	// Отсутствующие идентификаторы в результат не попадают.
	ListByIDs(ctx context.Context, ids []int64) ([]CatalogItem, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Add сохраняет новый заказ, присваивая идентификаторы заказу и позициям.
	// После успешного возврата заказ считается зафиксированным.
	Add(ctx context.Context, order Order) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByBuyer возвращает заказы покупателя с опциональным ограничением на количество.
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]Order, error)
}

// NotificationPublisher отправляет сериализованный заказ на внешний
// notification-endpoint. Ошибки транспорта фиксируются внутри и
// никогда не возвращаются вызывающему.
type NotificationPublisher interface {
	Notify(ctx context.Context, orderJSON []byte)
}

// FulfillmentPublisher отправляет сериализованный заказ в очередь склада.
// Ошибки транспорта фиксируются внутри и никогда не возвращаются вызывающему.
type FulfillmentPublisher interface {
	Publish(ctx context.Context, orderJSON []byte)
}
