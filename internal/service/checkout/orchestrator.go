package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
	"github.com/vladislavdragonenkov/checkout/internal/uri"
)

// Orchestrator описывает интерфейс оформления заказа.
type Orchestrator interface {
	// FinalizeOrder превращает корзину в сохранённый заказ и рассылает его
	// внешним получателям. Ошибки до записи заказа возвращаются вызывающему;
	// ошибки рассылки после записи — нет.
	FinalizeOrder(ctx context.Context, basketID int64, shipTo domain.Address) (domain.Order, error)
	// Shutdown дожидается завершения фоновых рассылок.
	Shutdown(ctx context.Context) error
}

// orchestrator реализует последовательность оформления:
// корзина → каталог → заказ → запись → рассылка.
type orchestrator struct {
	baskets     domain.BasketRepository
	catalog     domain.CatalogRepository
	orders      domain.OrderRepository
	notifier    domain.NotificationPublisher
	fulfillment domain.FulfillmentPublisher
	pictures    *uri.Composer
	logger      *log.Entry
	metrics     *metrics.CheckoutMetrics

	dispatchMu     sync.Mutex
	dispatchClosed bool
	dispatchWG     sync.WaitGroup
}

// NewOrchestrator создаёт рабочий экземпляр оркестратора.
func NewOrchestrator(
	baskets domain.BasketRepository,
	catalog domain.CatalogRepository,
	orders domain.OrderRepository,
	notifier domain.NotificationPublisher,
	fulfillment domain.FulfillmentPublisher,
	pictures *uri.Composer,
	logger *log.Entry,
) Orchestrator {
	return newOrchestrator(baskets, catalog, orders, notifier, fulfillment, pictures, logger, metrics.NewCheckoutMetrics())
}

// NewOrchestratorWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewOrchestratorWithoutMetrics(
	baskets domain.BasketRepository,
	catalog domain.CatalogRepository,
	orders domain.OrderRepository,
	notifier domain.NotificationPublisher,
	fulfillment domain.FulfillmentPublisher,
	pictures *uri.Composer,
	logger *log.Entry,
) Orchestrator {
	return newOrchestrator(baskets, catalog, orders, notifier, fulfillment, pictures, logger, nil)
}

func newOrchestrator(
	baskets domain.BasketRepository,
	catalog domain.CatalogRepository,
	orders domain.OrderRepository,
	notifier domain.NotificationPublisher,
	fulfillment domain.FulfillmentPublisher,
	pictures *uri.Composer,
	logger *log.Entry,
	m *metrics.CheckoutMetrics,
) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	if pictures == nil {
		pictures = uri.NewComposer("")
	}
	return &orchestrator{
		baskets:     baskets,
		catalog:     catalog,
		orders:      orders,
		notifier:    notifier,
		fulfillment: fulfillment,
		pictures:    pictures,
		logger:      logger,
		metrics:     m,
	}
}

// FinalizeOrder реализует контракт Orchestrator. Запись заказа — граница
// надёжности: всё до неё фатально и возвращается вызывающему, всё после —
// best-effort.
func (o *orchestrator) FinalizeOrder(ctx context.Context, basketID int64, shipTo domain.Address) (domain.Order, error) {
	start := time.Now()
	if o.metrics != nil {
		o.metrics.RecordCheckoutStarted()
		defer func() {
			o.metrics.RecordCheckoutDuration(time.Since(start))
		}()
	}

	basket, err := o.baskets.GetWithItems(ctx, basketID)
	if err != nil {
		o.logger.WithError(err).WithField("basket_id", basketID).Warn("basket lookup failed")
		o.recordFailed()
		return domain.Order{}, err
	}

	if basket.IsEmpty() {
		o.logger.WithField("basket_id", basketID).Warn("checkout rejected for empty basket")
		o.recordFailed()
		return domain.Order{}, domain.ErrEmptyBasket
	}

	items, err := o.buildOrderItems(ctx, basket)
	if err != nil {
		o.recordFailed()
		return domain.Order{}, err
	}

	order := domain.Order{
		BuyerID:   basket.BuyerID,
		ShipTo:    shipTo,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		o.logger.WithField("basket_id", basketID).Warn("order invariants violated")
		o.recordFailed()
		return domain.Order{}, fmt.Errorf("invalid order: %s", joinErrors(errs))
	}

	persisted, err := o.orders.Add(ctx, order)
	if err != nil {
		o.logger.WithError(err).WithField("basket_id", basketID).Error("failed to persist order")
		o.recordFailed()
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrOrderPersistFailed, err)
	}

	// Заказ зафиксирован. Сериализуем один раз и отдаём один и тот же
	// payload обоим издателям; их сбои оформление уже не откатывают.
	payload, err := EncodeOrderPayload(persisted)
	if err != nil {
		o.logger.WithError(err).WithField("order_id", persisted.ID).Error("failed to encode order payload, downstream dispatch skipped")
	} else {
		o.dispatchPublishers(persisted.ID, payload)
	}

	if o.metrics != nil {
		o.metrics.RecordCheckoutCompleted()
	}
	o.logger.WithFields(log.Fields{
		"order_id":  persisted.ID,
		"basket_id": basketID,
		"items":     len(persisted.Items),
	}).Info("order finalized")

	return persisted, nil
}

// buildOrderItems разрешает каталожные ссылки корзины одним батч-запросом
// и замораживает позиции заказа.
func (o *orchestrator) buildOrderItems(ctx context.Context, basket domain.Basket) ([]domain.OrderItem, error) {
	ids := basket.CatalogItemIDs()
	catalogItems, err := o.catalog.ListByIDs(ctx, ids)
	if err != nil {
		o.logger.WithError(err).WithField("basket_id", basket.ID).Error("catalog lookup failed")
		return nil, fmt.Errorf("resolve catalog items: %w", err)
	}

	byID := make(map[int64]domain.CatalogItem, len(catalogItems))
	for _, ci := range catalogItems {
		byID[ci.ID] = ci
	}

	items := make([]domain.OrderItem, 0, len(basket.Items))
	for _, basketItem := range basket.Items {
		catalogItem, ok := byID[basketItem.CatalogItemID]
		if !ok {
			o.logger.WithFields(log.Fields{
				"basket_id":       basket.ID,
				"catalog_item_id": basketItem.CatalogItemID,
			}).Warn("basket references unknown catalog item")
			return nil, domain.ErrBasketInconsistent
		}
		items = append(items, domain.OrderItem{
			CatalogItemID: catalogItem.ID,
			ProductName:   catalogItem.Name,
			PictureURI:    o.pictures.ComposePicURI(catalogItem.PictureURI),
			UnitPrice:     basketItem.UnitPrice,
			Quantity:      basketItem.Quantity,
		})
	}

	return items, nil
}

// dispatchPublishers запускает обе рассылки на собственных горутинах.
// Вызывающий получает заказ, не дожидаясь издателей; рассылки не привязаны
// к времени жизни входящего запроса и дренируются в Shutdown.
func (o *orchestrator) dispatchPublishers(orderID string, payload []byte) {
	o.runAsync(orderID, "notification", func(ctx context.Context) {
		if o.notifier != nil {
			o.notifier.Notify(ctx, payload)
		}
	})
	o.runAsync(orderID, "fulfillment", func(ctx context.Context) {
		if o.fulfillment != nil {
			o.fulfillment.Publish(ctx, payload)
		}
	})
}

func (o *orchestrator) runAsync(orderID, target string, fn func(ctx context.Context)) {
	o.dispatchMu.Lock()
	if o.dispatchClosed {
		o.dispatchMu.Unlock()
		o.logger.WithFields(log.Fields{
			"order_id": orderID,
			"target":   target,
		}).Warn("publisher dispatch skipped during shutdown")
		return
	}
	o.dispatchWG.Add(1)
	o.dispatchMu.Unlock()

	go func() {
		defer o.dispatchWG.Done()
		fn(context.Background())
	}()
}

// Shutdown ожидает завершения фоновых рассылок.
func (o *orchestrator) Shutdown(ctx context.Context) error {
	o.dispatchMu.Lock()
	o.dispatchClosed = true
	o.dispatchMu.Unlock()

	waitDone := make(chan struct{})
	go func() {
		o.dispatchWG.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *orchestrator) recordFailed() {
	if o.metrics != nil {
		o.metrics.RecordCheckoutFailed()
	}
}

func joinErrors(errs []error) string {
	builder := strings.Builder{}
	for i, err := range errs {
		builder.WriteString(err.Error())
		if i < len(errs)-1 {
			builder.WriteString("; ")
		}
	}
	return builder.String()
}

var _ Orchestrator = (*orchestrator)(nil)
