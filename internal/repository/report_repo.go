package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := GetDB(ctx, r.db).Table("invoice_items").
		Select("invoice_items.product_id as product_id, invoice_items.product_name as product_name, SUM(invoice_items.quantity) as total_quantity, CAST(SUM(invoice_items.total) AS TEXT) as total_value").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.created_at >= ? AND invoices.created_at < ?", start, end).
		Group("invoice_items.product_id, invoice_items.product_name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", classify(err))
	}
	return rankings, nil
}
