package memory

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func TestCatalogRepository_ListByIDs(t *testing.T) {
	repo := NewCatalogRepository()
	repo.Seed(
		domain.CatalogItem{ID: 1, Name: "Roadster T-Shirt", PictureURI: "/img/1.png"},
		domain.CatalogItem{ID: 2, Name: "Roadster Mug", PictureURI: "/img/2.png"},
		domain.CatalogItem{ID: 3, Name: "Roadster Sticker Pack", PictureURI: "/img/3.png"},
	)

	items, err := repo.ListByIDs(context.Background(), []int64{3, 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 3 || items[1].ID != 1 {
		t.Fatalf("expected items in requested order, got %+v", items)
	}
}

func TestCatalogRepository_MissingIDsOmitted(t *testing.T) {
	repo := NewCatalogRepository()
	repo.Seed(domain.CatalogItem{ID: 1, Name: "Roadster T-Shirt"})

	items, err := repo.ListByIDs(context.Background(), []int64{1, 404})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected only the known item, got %+v", items)
	}
}

func TestCatalogRepository_EmptyIDs(t *testing.T) {
	repo := NewCatalogRepository()
	items, err := repo.ListByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %+v", items)
	}
}
