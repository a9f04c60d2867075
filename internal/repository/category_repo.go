package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return classify(GetDB(ctx, r.db).Create(category).Error)
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return classify(GetDB(ctx, r.db).Save(category).Error)
}

// Delete removes the category; the SET NULL constraint on products clears
// their category_id rather than failing.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return classify(GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Category{}).Error)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := GetDB(ctx, r.db).Order("name asc").Find(&categories).Error; err != nil {
		return nil, classify(err)
	}
	return categories, nil
}
