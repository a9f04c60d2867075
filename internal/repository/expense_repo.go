package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, start, end *time.Time, page, limit int) ([]model.Expense, int64, error)
	Total(ctx context.Context, start, end time.Time) (string, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return classify(GetDB(ctx, r.db).Create(expense).Error)
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return classify(GetDB(ctx, r.db).Save(expense).Error)
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return classify(GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error)
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).First(&expense, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, start, end *time.Time, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if start != nil {
			q = q.Where("date >= ?", *start)
		}
		if end != nil {
			q = q.Where("date <= ?", *end)
		}
		return q
	}

	if err := apply(db.Model(&model.Expense{})).Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	offset := (page - 1) * limit
	if err := apply(db.Preload("User")).Order("date desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, classify(err)
	}

	return expenses, total, nil
}

func (r *expenseRepository) Total(ctx context.Context, start, end time.Time) (string, error) {
	var result struct {
		Total string
	}
	err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("COALESCE(CAST(SUM(amount) AS TEXT), '0') as total").
		Where("date >= ? AND date <= ?", start, end).
		Scan(&result).Error
	if err != nil {
		return "0", classify(err)
	}
	return result.Total, nil
}
