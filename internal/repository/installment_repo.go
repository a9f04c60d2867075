package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, payments []model.InstallmentPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InstallmentPayment, error)
	List(ctx context.Context, status string, page, limit int) ([]model.InstallmentPayment, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.InstallmentPayment, error)
	ListOverdue(ctx context.Context, today time.Time) ([]model.InstallmentPayment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time) error
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)
}

type installmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, payments []model.InstallmentPayment) error {
	if len(payments) == 0 {
		return nil
	}
	return classify(GetDB(ctx, r.db).Create(&payments).Error)
}

func (r *installmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InstallmentPayment, error) {
	var payment model.InstallmentPayment
	if err := GetDB(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &payment, nil
}

func (r *installmentRepository) List(ctx context.Context, status string, page, limit int) ([]model.InstallmentPayment, int64, error) {
	var payments []model.InstallmentPayment
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.InstallmentPayment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	fetch := db.Preload("Customer").Preload("Invoice")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("due_date asc").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, classify(err)
	}

	return payments, total, nil
}

func (r *installmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.InstallmentPayment, error) {
	var payments []model.InstallmentPayment
	if err := GetDB(ctx, r.db).Preload("Invoice").
		Where("customer_id = ?", customerID).
		Order("due_date asc").Find(&payments).Error; err != nil {
		return nil, classify(err)
	}
	return payments, nil
}

func (r *installmentRepository) ListOverdue(ctx context.Context, today time.Time) ([]model.InstallmentPayment, error) {
	var payments []model.InstallmentPayment
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("Invoice").
		Where("status = ? AND due_date < ?", model.InstallmentPending, today).
		Order("due_date asc").Find(&payments).Error; err != nil {
		return nil, classify(err)
	}
	return payments, nil
}

func (r *installmentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate time.Time) error {
	res := GetDB(ctx, r.db).Model(&model.InstallmentPayment{}).
		Where("id = ? AND status IN ?", id, []string{model.InstallmentPending, model.InstallmentOverdue}).
		Updates(map[string]interface{}{
			"status":    model.InstallmentPaid,
			"paid_date": paidDate,
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound)
	}
	return nil
}

// SweepOverdue reclassifies every pending installment past its due date in
// one UPDATE. The statement is its own atomic unit and running it again on
// the same day touches zero rows.
func (r *installmentRepository) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.InstallmentPayment{}).
		Where("status = ? AND due_date < ?", model.InstallmentPending, today).
		Update("status", model.InstallmentOverdue)
	if res.Error != nil {
		return 0, classify(res.Error)
	}
	return res.RowsAffected, nil
}
