package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type returnFixture struct {
	store       *memStore
	broadcaster *fakeBroadcaster
	service     ReturnService
	userID      string
}

func newReturnFixture() *returnFixture {
	store := newMemStore()
	broadcaster := &fakeBroadcaster{}
	svc := NewReturnService(
		&fakeReturnRepo{store: store},
		&fakeInvoiceRepo{store: store},
		&fakeProductRepo{store: store},
		&fakeTxManager{store: store},
		broadcaster,
	)
	return &returnFixture{
		store:       store,
		broadcaster: broadcaster,
		service:     svc,
		userID:      uuid.NewString(),
	}
}

func (f *returnFixture) seedInvoice(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.invoices[id] = model.Invoice{ID: id, InvoiceNumber: "INV-TEST-001", UserID: uuid.New()}
	return id
}

func TestCreateReturnRestoresStock(t *testing.T) {
	f := newReturnFixture()
	product := f.store.addProduct("Phone", 300, 10)
	invoice := f.seedInvoice(t)

	res, err := f.service.CreateReturn(context.Background(), f.userID, CreateReturnRequest{
		InvoiceID: invoice.String(),
		ProductID: product.String(),
		Quantity:  3,
		Amount:    "900",
		Reason:    "defective",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.store.stockOf(product); got != 13 {
		t.Fatalf("stock = %d, want 13", got)
	}
	if len(f.store.returns) != 1 {
		t.Fatalf("expected 1 return row, got %d", len(f.store.returns))
	}
	if res.ProductName != "Phone" {
		t.Fatalf("product name snapshot = %q, want Phone", res.ProductName)
	}
	if got := f.broadcaster.count("stock_changed"); got != 1 {
		t.Fatalf("expected 1 stock_changed event, got %d", got)
	}
}

func TestCreateReturnFailsOnMissingInvoice(t *testing.T) {
	f := newReturnFixture()
	product := f.store.addProduct("Phone", 300, 10)

	_, err := f.service.CreateReturn(context.Background(), f.userID, CreateReturnRequest{
		InvoiceID: uuid.NewString(),
		ProductID: product.String(),
		Quantity:  1,
		Amount:    "300",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := f.store.stockOf(product); got != 10 {
		t.Fatalf("stock = %d, want 10 untouched", got)
	}
	if len(f.store.returns) != 0 {
		t.Fatalf("expected no return rows, got %d", len(f.store.returns))
	}
}

func TestCreateReturnFailsOnMissingProduct(t *testing.T) {
	f := newReturnFixture()
	invoice := f.seedInvoice(t)

	_, err := f.service.CreateReturn(context.Background(), f.userID, CreateReturnRequest{
		InvoiceID: invoice.String(),
		ProductID: uuid.NewString(),
		Quantity:  1,
		Amount:    "300",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateReturnRejectsBadInput(t *testing.T) {
	f := newReturnFixture()
	product := f.store.addProduct("Phone", 300, 10)
	invoice := f.seedInvoice(t)

	cases := []struct {
		name string
		req  CreateReturnRequest
	}{
		{"zero quantity", CreateReturnRequest{InvoiceID: invoice.String(), ProductID: product.String(), Quantity: 0, Amount: "300"}},
		{"bad invoice id", CreateReturnRequest{InvoiceID: "nope", ProductID: product.String(), Quantity: 1, Amount: "300"}},
		{"bad amount", CreateReturnRequest{InvoiceID: invoice.String(), ProductID: product.String(), Quantity: 1, Amount: "x"}},
		{"bad date", CreateReturnRequest{InvoiceID: invoice.String(), ProductID: product.String(), Quantity: 1, Amount: "300", Date: "31-01-2026"}},
	}
	for _, tc := range cases {
		if _, err := f.service.CreateReturn(context.Background(), f.userID, tc.req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}
