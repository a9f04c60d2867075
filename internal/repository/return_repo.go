package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ReturnRepository interface {
	Create(ctx context.Context, ret *model.Return) error
	List(ctx context.Context, page, limit int) ([]model.Return, int64, error)
}

type returnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *model.Return) error {
	return classify(GetDB(ctx, r.db).Create(ret).Error)
}

func (r *returnRepository) List(ctx context.Context, page, limit int) ([]model.Return, int64, error) {
	var returns []model.Return
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Return{}).Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	offset := (page - 1) * limit
	if err := db.Preload("Invoice").Preload("User").
		Order("date desc").Offset(offset).Limit(limit).Find(&returns).Error; err != nil {
		return nil, 0, classify(err)
	}

	return returns, total, nil
}
