package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// memStore backs the fake repositories with plain maps so service behavior
// can be exercised without a database. All fakes sharing a store see each
// other's writes, like repositories sharing one connection.
type memStore struct {
	mu           sync.Mutex
	products     map[uuid.UUID]model.Product
	categories   map[uuid.UUID]model.Category
	customers    map[uuid.UUID]model.Customer
	invoices     map[uuid.UUID]model.Invoice
	items        []model.InvoiceItem
	installments map[uuid.UUID]model.InstallmentPayment
	returns      []model.Return
}

func newMemStore() *memStore {
	return &memStore{
		products:     make(map[uuid.UUID]model.Product),
		categories:   make(map[uuid.UUID]model.Category),
		customers:    make(map[uuid.UUID]model.Customer),
		invoices:     make(map[uuid.UUID]model.Invoice),
		installments: make(map[uuid.UUID]model.InstallmentPayment),
	}
}

func (s *memStore) addProduct(name string, price float64, stock int) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.products[id] = model.Product{ID: id, Name: name, Price: price, Stock: stock}
	return id
}

func (s *memStore) addCustomer(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.customers[id] = model.Customer{ID: id, Name: name}
	return id
}

func (s *memStore) stockOf(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

type snapshot struct {
	products     map[uuid.UUID]model.Product
	categories   map[uuid.UUID]model.Category
	customers    map[uuid.UUID]model.Customer
	invoices     map[uuid.UUID]model.Invoice
	items        []model.InvoiceItem
	installments map[uuid.UUID]model.InstallmentPayment
	returns      []model.Return
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:     make(map[uuid.UUID]model.Product, len(s.products)),
		categories:   make(map[uuid.UUID]model.Category, len(s.categories)),
		customers:    make(map[uuid.UUID]model.Customer, len(s.customers)),
		invoices:     make(map[uuid.UUID]model.Invoice, len(s.invoices)),
		items:        append([]model.InvoiceItem(nil), s.items...),
		installments: make(map[uuid.UUID]model.InstallmentPayment, len(s.installments)),
		returns:      append([]model.Return(nil), s.returns...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.installments {
		snap.installments[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.categories = snap.categories
	s.customers = snap.customers
	s.invoices = snap.invoices
	s.items = snap.items
	s.installments = snap.installments
	s.returns = snap.returns
}

// fakeTxManager mimics transactional semantics: a failing callback leaves
// the store exactly as it was before the call.
type fakeTxManager struct {
	store *memStore
}

func (t *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) Publish(event string, data map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e == event {
			n++
		}
	}
	return n
}

// --- product repository fake ---

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Create(ctx context.Context, product *model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", repository.ErrNotFound, id)
	}
	return &p, nil
}

func (r *fakeProductRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Product
	for _, p := range r.store.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Product
	for _, p := range r.store.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return fmt.Errorf("%w: product %s", repository.ErrNotFound, id)
	}
	p.Stock += delta
	r.store.products[id] = p
	return nil
}

func (r *fakeProductRepo) CountInvoiceItems(ctx context.Context, id uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, item := range r.store.items {
		if item.ProductID == id {
			n++
		}
	}
	return n, nil
}

// --- category repository fake ---

type fakeCategoryRepo struct {
	store *memStore
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.store.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.categories, id)
	// mirror the SET NULL constraint
	for pid, p := range r.store.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.store.products[pid] = p
		}
	}
	return nil
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s", repository.ErrNotFound, id)
	}
	return &c, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Category
	for _, c := range r.store.categories {
		out = append(out, c)
	}
	return out, nil
}

// --- customer repository fake ---

type fakeCustomerRepo struct {
	store *memStore
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.customers, id)
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, id)
	}
	return &c, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Customer
	for _, c := range r.store.customers {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// --- invoice repository fake ---

type fakeInvoiceRepo struct {
	store *memStore
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for _, existing := range r.store.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return fmt.Errorf("%w: duplicate invoice number", repository.ErrConflict)
		}
	}
	invoice.CreatedAt = time.Now()
	r.store.invoices[invoice.ID] = *invoice
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(ctx context.Context, item *model.InvoiceItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if _, ok := r.store.invoices[item.InvoiceID]; !ok {
		return fmt.Errorf("%w: invoice %s", repository.ErrNotFound, item.InvoiceID)
	}
	r.store.items = append(r.store.items, *item)
	return nil
}

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %s", repository.ErrNotFound, id)
	}
	for _, item := range r.store.items {
		if item.InvoiceID == id {
			inv.Items = append(inv.Items, item)
		}
	}
	return &inv, nil
}

func (r *fakeInvoiceRepo) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.invoices {
		if inv.InvoiceNumber == number {
			found := inv
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInvoiceRepo) Items(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.InvoiceItem
	for _, item := range r.store.items {
		if item.InvoiceID == invoiceID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Invoice
	for _, inv := range r.store.invoices {
		if filter.PaymentMethod != "" && inv.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if filter.CustomerID != nil && (inv.CustomerID == nil || *inv.CustomerID != *filter.CustomerID) {
			continue
		}
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.invoices, id)
	// cascade
	kept := r.store.items[:0]
	for _, item := range r.store.items {
		if item.InvoiceID != id {
			kept = append(kept, item)
		}
	}
	r.store.items = kept
	for pid, payment := range r.store.installments {
		if payment.InvoiceID == id {
			delete(r.store.installments, pid)
		}
	}
	return nil
}

func (r *fakeInvoiceRepo) SalesTotal(ctx context.Context, start, end time.Time) (string, int64, error) {
	return "0", 0, nil
}

// --- installment repository fake ---

type fakeInstallmentRepo struct {
	store *memStore
}

func (r *fakeInstallmentRepo) CreateBatch(ctx context.Context, payments []model.InstallmentPayment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range payments {
		if payments[i].ID == uuid.Nil {
			payments[i].ID = uuid.New()
		}
		if _, ok := r.store.invoices[payments[i].InvoiceID]; !ok {
			return fmt.Errorf("%w: invoice %s", repository.ErrNotFound, payments[i].InvoiceID)
		}
		r.store.installments[payments[i].ID] = payments[i]
	}
	return nil
}

func (r *fakeInstallmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InstallmentPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.installments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeInstallmentRepo) List(ctx context.Context, status string, page, limit int) ([]model.InstallmentPayment, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.InstallmentPayment
	for _, p := range r.store.installments {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInstallmentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.InstallmentPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.InstallmentPayment
	for _, p := range r.store.installments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) ListOverdue(ctx context.Context, today time.Time) ([]model.InstallmentPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.InstallmentPayment
	for _, p := range r.store.installments {
		if p.Status == model.InstallmentPending && p.DueDate.Before(today) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.installments[id]
	if !ok || (p.Status != model.InstallmentPending && p.Status != model.InstallmentOverdue) {
		return repository.ErrNotFound
	}
	p.Status = model.InstallmentPaid
	p.PaidDate = &paidDate
	r.store.installments[id] = p
	return nil
}

func (r *fakeInstallmentRepo) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for id, p := range r.store.installments {
		if p.Status == model.InstallmentPending && p.DueDate.Before(today) {
			p.Status = model.InstallmentOverdue
			r.store.installments[id] = p
			count++
		}
	}
	return count, nil
}

// --- return repository fake ---

type fakeReturnRepo struct {
	store *memStore
}

func (r *fakeReturnRepo) Create(ctx context.Context, ret *model.Return) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	if _, ok := r.store.invoices[ret.InvoiceID]; !ok {
		return fmt.Errorf("%w: invoice %s", repository.ErrNotFound, ret.InvoiceID)
	}
	if _, ok := r.store.products[ret.ProductID]; !ok {
		return fmt.Errorf("%w: product %s", repository.ErrNotFound, ret.ProductID)
	}
	r.store.returns = append(r.store.returns, *ret)
	return nil
}

func (r *fakeReturnRepo) List(ctx context.Context, page, limit int) ([]model.Return, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]model.Return(nil), r.store.returns...), int64(len(r.store.returns)), nil
}
