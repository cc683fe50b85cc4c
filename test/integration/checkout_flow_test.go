package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/httpapi"
	"github.com/vladislavdragonenkov/checkout/internal/notification"
	"github.com/vladislavdragonenkov/checkout/internal/service/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/storage/memory"
	"github.com/vladislavdragonenkov/checkout/internal/uri"
)

// capturingFulfillment подменяет очередь склада в сквозных тестах.
type capturingFulfillment struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (c *capturingFulfillment) Publish(_ context.Context, orderJSON []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload := make([]byte, len(orderJSON))
	copy(payload, orderJSON)
	c.payloads = append(c.payloads, payload)
}

func (c *capturingFulfillment) recorded() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads
}

// CheckoutFlowTestSuite тестирует полный путь оформления: HTTP API →
// оркестратор → хранилище → best-effort рассылки.
type CheckoutFlowTestSuite struct {
	suite.Suite
	router       http.Handler
	baskets      memory.BasketRepository
	orders       domain.OrderRepository
	orchestrator checkout.Orchestrator

	notifyServer *httptest.Server
	notifyMu     sync.Mutex
	notified     [][]byte

	fulfillment *capturingFulfillment
}

func (suite *CheckoutFlowTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.notified = nil
	suite.notifyServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		suite.notifyMu.Lock()
		suite.notified = append(suite.notified, body.Bytes())
		suite.notifyMu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))

	suite.baskets = memory.NewBasketRepository()
	catalog := memory.NewCatalogRepository()
	suite.orders = memory.NewOrderRepository()

	catalog.Seed(
		domain.CatalogItem{ID: 7, Name: "Widget", PictureURI: "/img/7.png"},
	)
	suite.baskets.Seed(domain.Basket{
		ID:      42,
		BuyerID: "b1",
		Items: []domain.BasketItem{
			{CatalogItemID: 7, UnitPrice: decimal.NewFromFloat(9.99), Quantity: 2},
		},
	})

	suite.fulfillment = &capturingFulfillment{}

	notifier := notification.NewPublisher(suite.notifyServer.URL, time.Second, nil, logger)
	suite.orchestrator = checkout.NewOrchestratorWithoutMetrics(
		suite.baskets, catalog, suite.orders,
		notifier, suite.fulfillment,
		uri.NewComposer("https://catalog.example.com"), logger,
	)

	suite.router = httpapi.NewServer(suite.orchestrator, suite.orders, logger).Router()
}

func (suite *CheckoutFlowTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = suite.orchestrator.Shutdown(ctx)
	suite.notifyServer.Close()
}

func (suite *CheckoutFlowTestSuite) postCheckout(basketID string) *httptest.ResponseRecorder {
	body, err := json.Marshal(map[string]any{
		"shipping_address": map[string]string{
			"street":   "1 Main St",
			"city":     "Kent",
			"country":  "USA",
			"zip_code": "44240",
		},
	})
	require.NoError(suite.T(), err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/baskets/"+basketID+"/checkout", bytes.NewReader(body))
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *CheckoutFlowTestSuite) notifiedPayloads() [][]byte {
	suite.notifyMu.Lock()
	defer suite.notifyMu.Unlock()
	return suite.notified
}

func (suite *CheckoutFlowTestSuite) waitForDispatch(count int, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(suite.notifiedPayloads()) >= count && len(suite.fulfillment.recorded()) >= count {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	suite.T().Fatalf("dispatch did not complete within %v: notified=%d fulfillment=%d",
		timeout, len(suite.notifiedPayloads()), len(suite.fulfillment.recorded()))
}

func (suite *CheckoutFlowTestSuite) TestSuccessfulCheckoutFlow() {
	// 1. Оформляем заказ через HTTP API
	rec := suite.postCheckout("42")
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	var created struct {
		ID      string `json:"id"`
		BuyerID string `json:"buyer_id"`
		Total   string `json:"total"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(suite.T(), created.ID)
	require.Equal(suite.T(), "b1", created.BuyerID)
	require.Equal(suite.T(), "19.98", created.Total)

	// 2. Заказ читается обратно
	order, err := suite.orders.Get(context.Background(), created.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), order.Items, 1)
	require.Equal(suite.T(), "Widget", order.Items[0].ProductName)
	require.Equal(suite.T(), "https://catalog.example.com/img/7.png", order.Items[0].PictureURI)

	// 3. Оба получателя получили один и тот же payload
	suite.waitForDispatch(1, 2*time.Second)
	notified := suite.notifiedPayloads()
	published := suite.fulfillment.recorded()
	require.Len(suite.T(), notified, 1)
	require.Len(suite.T(), published, 1)
	require.Equal(suite.T(), notified[0], published[0])

	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(suite.T(), json.Unmarshal(notified[0], &payload))
	require.Equal(suite.T(), created.ID, payload.ID)
}

func (suite *CheckoutFlowTestSuite) TestRejectedCheckoutHasNoSideEffects() {
	suite.baskets.Seed(domain.Basket{ID: 77, BuyerID: "b2"})

	rec := suite.postCheckout("77")
	require.Equal(suite.T(), http.StatusUnprocessableEntity, rec.Code)

	orders, err := suite.orders.ListByBuyer(context.Background(), "b2", 0)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), orders)

	require.Empty(suite.T(), suite.notifiedPayloads())
	require.Empty(suite.T(), suite.fulfillment.recorded())
}

func (suite *CheckoutFlowTestSuite) TestNotificationOutageDoesNotBreakCheckout() {
	// Endpoint уведомлений недоступен: оформление должно пройти как обычно.
	suite.notifyServer.Close()

	rec := suite.postCheckout("42")
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &created))

	_, err := suite.orders.Get(context.Background(), created.ID)
	require.NoError(suite.T(), err)

	// Очередь склада при этом получает заказ независимо от уведомлений.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(suite.fulfillment.recorded()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	suite.T().Fatal("fulfillment dispatch did not complete")
}

func TestCheckoutFlow(t *testing.T) {
	suite.Run(t, new(CheckoutFlowTestSuite))
}
