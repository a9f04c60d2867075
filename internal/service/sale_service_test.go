package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleFixture struct {
	store       *memStore
	broadcaster *fakeBroadcaster
	service     SaleService
	userID      string
}

func newSaleFixture() *saleFixture {
	store := newMemStore()
	broadcaster := &fakeBroadcaster{}
	svc := NewSaleService(
		&fakeInvoiceRepo{store: store},
		&fakeProductRepo{store: store},
		&fakeCustomerRepo{store: store},
		&fakeInstallmentRepo{store: store},
		&fakeTxManager{store: store},
		broadcaster,
	)
	return &saleFixture{
		store:       store,
		broadcaster: broadcaster,
		service:     svc,
		userID:      uuid.NewString(),
	}
}

func TestCreateSalePersistsInvoiceItemsAndStock(t *testing.T) {
	f := newSaleFixture()
	laptop := f.store.addProduct("Laptop", 500, 10)
	mouse := f.store.addProduct("Mouse", 20, 30)

	res, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		Subtotal:      "1040",
		Total:         "1040",
		PaymentMethod: model.PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: laptop.String(), Quantity: 2},
			{ProductID: mouse.String(), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InvoiceNumber == "" {
		t.Fatalf("expected a generated invoice number")
	}

	if got := f.store.stockOf(laptop); got != 8 {
		t.Fatalf("laptop stock = %d, want 8", got)
	}
	if got := f.store.stockOf(mouse); got != 28 {
		t.Fatalf("mouse stock = %d, want 28", got)
	}
	if len(f.store.items) != 2 {
		t.Fatalf("expected 2 invoice items, got %d", len(f.store.items))
	}
	// Snapshots carry the product's name and price at sale time.
	for _, item := range f.store.items {
		if item.ProductName == "" {
			t.Fatalf("item snapshot missing product name")
		}
	}
	if got := f.broadcaster.count("stock_changed"); got != 2 {
		t.Fatalf("expected 2 stock_changed events, got %d", got)
	}
}

func TestCreateSaleRollsBackOnMissingProduct(t *testing.T) {
	f := newSaleFixture()
	laptop := f.store.addProduct("Laptop", 500, 10)

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		Subtotal:      "1000",
		Total:         "1000",
		PaymentMethod: model.PaymentCash,
		Items: []SaleItemRequest{
			{ProductID: laptop.String(), Quantity: 2},
			{ProductID: uuid.NewString(), Quantity: 1}, // does not exist
		},
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Nothing from the failed sale survives: no invoice, no items, and the
	// first item's stock decrement is undone.
	if len(f.store.invoices) != 0 {
		t.Fatalf("expected no invoices after rollback, got %d", len(f.store.invoices))
	}
	if len(f.store.items) != 0 {
		t.Fatalf("expected no items after rollback, got %d", len(f.store.items))
	}
	if got := f.store.stockOf(laptop); got != 10 {
		t.Fatalf("laptop stock = %d, want 10 after rollback", got)
	}
	if got := f.broadcaster.count("stock_changed"); got != 0 {
		t.Fatalf("expected no events after rollback, got %d", got)
	}
}

func TestCreateSaleAllowsNegativeStock(t *testing.T) {
	f := newSaleFixture()
	cable := f.store.addProduct("Cable", 5, 1)

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		Subtotal:      "15",
		Total:         "15",
		PaymentMethod: model.PaymentCash,
		Items:         []SaleItemRequest{{ProductID: cable.String(), Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.store.stockOf(cable); got != -2 {
		t.Fatalf("stock = %d, want -2 (oversell is recorded, not blocked)", got)
	}
}

func TestCreateSaleInstallmentPersistsSchedule(t *testing.T) {
	f := newSaleFixture()
	tv := f.store.addProduct("TV", 1200, 5)
	customer := f.store.addCustomer("Alice")

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		CustomerID:      customer.String(),
		Subtotal:        "1200",
		Total:           "1200",
		PaymentMethod:   model.PaymentInstallment,
		DownPayment:     "200",
		InstallmentRate: "4.5",
		TermMonths:      10,
		Items:           []SaleItemRequest{{ProductID: tv.String(), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.store.installments) != 10 {
		t.Fatalf("expected 10 installments, got %d", len(f.store.installments))
	}
	per := decimal.NewFromInt(100)
	for _, p := range f.store.installments {
		if p.Status != model.InstallmentPending {
			t.Fatalf("installment status = %q, want pending", p.Status)
		}
		if !p.Amount.Equal(per) {
			t.Fatalf("installment amount = %s, want 100", p.Amount)
		}
		if p.CustomerID != customer {
			t.Fatalf("installment bound to wrong customer")
		}
	}
}

func TestCreateSaleInstallmentDefaultsTermToTwelve(t *testing.T) {
	f := newSaleFixture()
	tv := f.store.addProduct("TV", 1200, 5)
	customer := f.store.addCustomer("Alice")

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		CustomerID:    customer.String(),
		Subtotal:      "1200",
		Total:         "1200",
		PaymentMethod: model.PaymentInstallment,
		Items:         []SaleItemRequest{{ProductID: tv.String(), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.store.installments) != DefaultTermMonths {
		t.Fatalf("expected %d installments, got %d", DefaultTermMonths, len(f.store.installments))
	}
}

func TestCreateSaleInstallmentRequiresCustomer(t *testing.T) {
	f := newSaleFixture()
	tv := f.store.addProduct("TV", 1200, 5)

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		Subtotal:      "1200",
		Total:         "1200",
		PaymentMethod: model.PaymentInstallment,
		Items:         []SaleItemRequest{{ProductID: tv.String(), Quantity: 1}},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	f := newSaleFixture()
	p := f.store.addProduct("Widget", 10, 5)
	item := SaleItemRequest{ProductID: p.String(), Quantity: 1}

	cases := []struct {
		name string
		user string
		req  CreateSaleRequest
	}{
		{"bad user id", "not-a-uuid", CreateSaleRequest{Subtotal: "10", Total: "10", PaymentMethod: model.PaymentCash, Items: []SaleItemRequest{item}}},
		{"no items", f.userID, CreateSaleRequest{Subtotal: "10", Total: "10", PaymentMethod: model.PaymentCash}},
		{"zero quantity", f.userID, CreateSaleRequest{Subtotal: "10", Total: "10", PaymentMethod: model.PaymentCash, Items: []SaleItemRequest{{ProductID: p.String(), Quantity: 0}}}},
		{"bad subtotal", f.userID, CreateSaleRequest{Subtotal: "abc", Total: "10", PaymentMethod: model.PaymentCash, Items: []SaleItemRequest{item}}},
		{"negative term", f.userID, CreateSaleRequest{CustomerID: uuid.NewString(), Subtotal: "10", Total: "10", PaymentMethod: model.PaymentInstallment, TermMonths: -3, Items: []SaleItemRequest{item}}},
	}
	for _, tc := range cases {
		if _, err := f.service.CreateSale(context.Background(), tc.user, tc.req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
	if len(f.store.invoices) != 0 {
		t.Fatalf("rejected sales must write nothing, found %d invoices", len(f.store.invoices))
	}
}

func TestCreateSaleUsesOverridePrice(t *testing.T) {
	f := newSaleFixture()
	p := f.store.addProduct("Widget", 10, 5)

	_, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		Subtotal:      "16",
		Total:         "16",
		PaymentMethod: model.PaymentCard,
		Items:         []SaleItemRequest{{ProductID: p.String(), Quantity: 2, Price: "9", Discount: "2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := f.store.items[0]
	if !item.Price.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("item price = %s, want 9", item.Price)
	}
	if !item.Total.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("line total = %s, want 16", item.Total)
	}
}

func TestDeleteInvoiceCascades(t *testing.T) {
	f := newSaleFixture()
	tv := f.store.addProduct("TV", 1200, 5)
	customer := f.store.addCustomer("Alice")

	res, err := f.service.CreateSale(context.Background(), f.userID, CreateSaleRequest{
		CustomerID:    customer.String(),
		Subtotal:      "1200",
		Total:         "1200",
		PaymentMethod: model.PaymentInstallment,
		TermMonths:    6,
		Items:         []SaleItemRequest{{ProductID: tv.String(), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.DeleteInvoice(context.Background(), res.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.store.invoices) != 0 || len(f.store.items) != 0 || len(f.store.installments) != 0 {
		t.Fatalf("cascade incomplete: %d invoices, %d items, %d installments",
			len(f.store.invoices), len(f.store.items), len(f.store.installments))
	}
}
