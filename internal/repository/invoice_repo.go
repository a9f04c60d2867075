package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceFilter narrows invoice listings for the read-only query surface
type InvoiceFilter struct {
	CustomerID    *uuid.UUID
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	CreateItem(ctx context.Context, item *model.InvoiceItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	Items(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SalesTotal(ctx context.Context, start, end time.Time) (total string, count int64, err error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return classify(GetDB(ctx, r.db).Create(invoice).Error)
}

func (r *invoiceRepository) CreateItem(ctx context.Context, item *model.InvoiceItem) error {
	return classify(GetDB(ctx, r.db).Create(item).Error)
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").Where("invoice_number = ?", number).First(&invoice).Error; err != nil {
		return nil, classify(err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Items(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceItem, error) {
	var items []model.InvoiceItem
	if err := GetDB(ctx, r.db).Where("invoice_id = ?", invoiceID).Find(&items).Error; err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			q = q.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.PaymentMethod != "" {
			q = q.Where("payment_method = ?", filter.PaymentMethod)
		}
		if filter.StartDate != nil {
			q = q.Where("created_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			q = q.Where("created_at < ?", *filter.EndDate)
		}
		return q
	}

	if err := apply(db.Model(&model.Invoice{})).Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db.Preload("Customer").Preload("User")).
		Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, classify(err)
	}

	return invoices, total, nil
}

// Delete removes the invoice; cascade constraints take its items and
// installment rows with it.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return classify(GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Invoice{}).Error)
}

func (r *invoiceRepository) SalesTotal(ctx context.Context, start, end time.Time) (string, int64, error) {
	var result struct {
		Total string
		Count int64
	}
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("COALESCE(CAST(SUM(total) AS TEXT), '0') as total, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return "0", 0, classify(err)
	}
	return result.Total, result.Count, nil
}
