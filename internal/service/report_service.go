package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"backend/internal/cache"
	"backend/internal/model"
	"backend/internal/repository"
)

const reportCacheTTL = 60 * time.Second

// ReportService serves the read-only projections consumed by dashboards.
// Results are cached briefly; a cache failure degrades to a direct query.
type ReportService interface {
	SalesSummary(ctx context.Context, startDate, endDate string) (model.SalesSummary, error)
	TopProducts(ctx context.Context, startDate, endDate string, limit int) ([]model.ProductRanking, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	expenseRepo repository.ExpenseRepository
	reportRepo  repository.ReportRepository
	cache       cache.Cache
}

func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	reportRepo repository.ReportRepository,
	c cache.Cache,
) ReportService {
	if c == nil {
		c = cache.Noop{}
	}
	return &reportService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		reportRepo:  reportRepo,
		cache:       c,
	}
}

func (s *reportService) SalesSummary(ctx context.Context, startDate, endDate string) (model.SalesSummary, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return model.SalesSummary{}, err
	}

	key := "report:sales:" + startDate + ":" + endDate
	var summary model.SalesSummary
	if hit := s.cacheGet(ctx, key, &summary); hit {
		return summary, nil
	}

	total, count, err := s.invoiceRepo.SalesTotal(ctx, start, end)
	if err != nil {
		return model.SalesSummary{}, err
	}
	expenseTotal, err := s.expenseRepo.Total(ctx, start, end)
	if err != nil {
		return model.SalesSummary{}, err
	}

	summary = model.SalesSummary{
		TotalSales:   total,
		InvoiceCount: int(count),
		TotalExpense: expenseTotal,
		StartDate:    start,
		EndDate:      end,
	}
	s.cacheSet(ctx, key, summary)
	return summary, nil
}

func (s *reportService) TopProducts(ctx context.Context, startDate, endDate string, limit int) ([]model.ProductRanking, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	key := fmt.Sprintf("report:top:%s:%s:%d", startDate, endDate, limit)
	var rankings []model.ProductRanking
	if hit := s.cacheGet(ctx, key, &rankings); hit {
		return rankings, nil
	}

	rankings, err = s.reportRepo.TopProducts(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rankings)
	return rankings, nil
}

func (s *reportService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	payload, found, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Println("report cache get failed:", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false
	}
	return true
}

func (s *reportService) cacheSet(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, reportCacheTTL); err != nil {
		log.Println("report cache set failed:", err)
	}
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date", ErrInvalidArgument)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date", ErrInvalidArgument)
	}
	return start, end.AddDate(0, 0, 1), nil
}
