package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func makeIntegrationOrder(buyerID string, createdAt time.Time) domain.Order {
	return domain.Order{
		BuyerID: buyerID,
		ShipTo: domain.Address{
			Street:  "1 Main St",
			City:    "Kent",
			State:   "OH",
			Country: "USA",
			ZipCode: "44240",
		},
		Items: []domain.OrderItem{
			{CatalogItemID: 7, ProductName: "Widget", PictureURI: "https://catalog.example.com/img/7.png", UnitPrice: decimal.NewFromFloat(9.99), Quantity: 2},
			{CatalogItemID: 3, ProductName: "Sticker Pack", UnitPrice: decimal.NewFromFloat(4.50), Quantity: 1},
		},
		CreatedAt: createdAt,
	}
}

func TestOrderRepository_Integration_AddAndGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()

	stored, err := repo.Add(ctx, makeIntegrationOrder("b1", time.Now().UTC().Truncate(time.Microsecond)))
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected order id to be assigned")
	}
	for _, item := range stored.Items {
		if item.ID == "" {
			t.Fatal("expected item ids to be assigned")
		}
	}

	got, err := repo.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.BuyerID != "b1" {
		t.Errorf("unexpected buyer: %q", got.BuyerID)
	}
	if got.ShipTo.City != "Kent" || got.ShipTo.ZipCode != "44240" {
		t.Errorf("unexpected address: %+v", got.ShipTo)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	// Позиции возвращаются в порядке сохранения.
	if got.Items[0].ProductName != "Widget" || got.Items[1].ProductName != "Sticker Pack" {
		t.Errorf("unexpected item order: %+v", got.Items)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.NewFromFloat(9.99)) {
		t.Errorf("unexpected unit price: %s", got.Items[0].UnitPrice)
	}
	if !got.Total().Equal(decimal.NewFromFloat(24.48)) {
		t.Errorf("unexpected total: %s", got.Total())
	}
}

func TestOrderRepository_Integration_GetNotFound(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Integration_ListByBuyer(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := repo.Add(ctx, makeIntegrationOrder("b1", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("add order: %v", err)
		}
	}
	if _, err := repo.Add(ctx, makeIntegrationOrder("b2", base)); err != nil {
		t.Fatalf("add order: %v", err)
	}

	orders, err := repo.ListByBuyer(ctx, "b1", 0)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Fatal("expected orders sorted by created_at desc")
		}
	}

	limited, err := repo.ListByBuyer(ctx, "b1", 2)
	if err != nil {
		t.Fatalf("list orders with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to cap at 2, got %d", len(limited))
	}
}
