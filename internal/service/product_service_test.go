package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newProductFixture() (*memStore, ProductService) {
	store := newMemStore()
	svc := NewProductService(
		&fakeProductRepo{store: store},
		&fakeCategoryRepo{store: store},
		&fakeTxManager{store: store},
		&fakeBroadcaster{},
	)
	return store, svc
}

func TestAdjustStockAppliesRelativeDelta(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 10)

	res, err := svc.AdjustStock(context.Background(), id.String(), -4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stock != 6 {
		t.Fatalf("stock = %d, want 6", res.Stock)
	}

	res, err = svc.AdjustStock(context.Background(), id.String(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stock != 16 {
		t.Fatalf("stock = %d, want 16", res.Stock)
	}
}

func TestAdjustStockConcurrentDeltasAllLand(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 100)

	deltas := []int{-2, -3, -5, 4, -1, 7, -10, 2}
	var wg sync.WaitGroup
	for _, d := range deltas {
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			if _, err := svc.AdjustStock(context.Background(), id.String(), delta); err != nil {
				t.Errorf("adjust %d failed: %v", delta, err)
			}
		}(d)
	}
	wg.Wait()

	want := 100
	for _, d := range deltas {
		want += d
	}
	if got := store.stockOf(id); got != want {
		t.Fatalf("stock = %d, want %d; a concurrent delta was lost", got, want)
	}
}

func TestAdjustStockRejectsZeroDeltaAndUnknownProduct(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 10)

	if _, err := svc.AdjustStock(context.Background(), id.String(), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero delta, got %v", err)
	}
	if _, err := svc.AdjustStock(context.Background(), uuid.NewString(), 5); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := store.stockOf(id); got != 10 {
		t.Fatalf("stock = %d, want 10 untouched", got)
	}
}

func TestDeleteProductBlockedByInvoiceHistory(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 10)

	invoiceID := uuid.New()
	store.invoices[invoiceID] = model.Invoice{ID: invoiceID, InvoiceNumber: "INV-1", UserID: uuid.New()}
	store.items = append(store.items, model.InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		ProductID:   id,
		ProductName: "Widget",
		Quantity:    1,
		Price:       decimal.NewFromInt(10),
		Total:       decimal.NewFromInt(10),
	})

	err := svc.DeleteProduct(context.Background(), id.String())
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict while invoice items reference the product, got %v", err)
	}
	if _, ok := store.products[id]; !ok {
		t.Fatalf("product must survive a rejected delete")
	}
}

func TestDeleteProductWithoutHistory(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 10)

	if err := svc.DeleteProduct(context.Background(), id.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.products[id]; ok {
		t.Fatalf("product should be gone")
	}
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	_, svc := newProductFixture()

	_, err := svc.CreateProduct(context.Background(), ProductRequest{
		Name:       "Widget",
		Price:      10,
		CategoryID: uuid.NewString(),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestDeleteCategoryClearsProductReferences(t *testing.T) {
	store, svc := newProductFixture()
	catID := uuid.New()
	store.categories[catID] = model.Category{ID: catID, Name: "Electronics"}
	id := store.addProduct("Widget", 10, 10)
	p := store.products[id]
	p.CategoryID = &catID
	store.products[id] = p

	if err := svc.DeleteCategory(context.Background(), catID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.products[id].CategoryID != nil {
		t.Fatalf("product should lose its category reference, not block the delete")
	}
}

func TestGetProductByBarcode(t *testing.T) {
	store, svc := newProductFixture()
	id := store.addProduct("Widget", 10, 10)
	barcode := "8991234567890"
	p := store.products[id]
	p.Barcode = &barcode
	store.products[id] = p

	res, err := svc.GetProductByBarcode(context.Background(), barcode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != id.String() {
		t.Fatalf("found wrong product %s", res.ID)
	}

	if _, err := svc.GetProductByBarcode(context.Background(), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty barcode, got %v", err)
	}
}
