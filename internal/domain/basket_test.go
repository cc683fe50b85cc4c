package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestBasketIsEmpty(t *testing.T) {
	basket := domain.Basket{ID: 1, BuyerID: "buyer-1"}
	if !basket.IsEmpty() {
		t.Fatal("expected basket without items to be empty")
	}

	basket.Items = append(basket.Items, domain.BasketItem{
		CatalogItemID: 7,
		UnitPrice:     decimal.NewFromFloat(9.99),
		Quantity:      1,
	})
	if basket.IsEmpty() {
		t.Fatal("expected basket with items to be non-empty")
	}
}

func TestBasketCatalogItemIDs_Dedup(t *testing.T) {
	basket := domain.Basket{
		ID:      1,
		BuyerID: "buyer-1",
		Items: []domain.BasketItem{
			{CatalogItemID: 7, Quantity: 2},
			{CatalogItemID: 3, Quantity: 1},
			{CatalogItemID: 7, Quantity: 1},
			{CatalogItemID: 5, Quantity: 4},
		},
	}

	ids := basket.CatalogItemIDs()
	want := []int64{7, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(ids), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected ids %v in first-appearance order, got %v", want, ids)
		}
	}
}

func TestBasketCatalogItemIDs_Empty(t *testing.T) {
	basket := domain.Basket{ID: 1}
	if ids := basket.CatalogItemIDs(); len(ids) != 0 {
		t.Fatalf("expected no ids for empty basket, got %v", ids)
	}
}
