package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type InstallmentResponse struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	Amount        string  `json:"amount"`
	DueDate       string  `json:"due_date"`
	PaidDate      *string `json:"paid_date"`
	Status        string  `json:"status"`
}

// --- Interface ---

type InstallmentService interface {
	List(ctx context.Context, status string, page, limit int) ([]InstallmentResponse, int64, error)
	ListByCustomer(ctx context.Context, customerID string) ([]InstallmentResponse, error)
	ListOverdue(ctx context.Context) ([]InstallmentResponse, error)
	MarkPaid(ctx context.Context, id string) error
	SweepOverdue(ctx context.Context) (int64, error)
}

type installmentService struct {
	installmentRepo repository.InstallmentRepository
	broadcaster     EventBroadcaster
	now             func() time.Time
}

func NewInstallmentService(installmentRepo repository.InstallmentRepository, broadcaster EventBroadcaster) InstallmentService {
	return &installmentService{
		installmentRepo: installmentRepo,
		broadcaster:     broadcaster,
		now:             time.Now,
	}
}

// --- Implementation ---

func (s *installmentService) List(ctx context.Context, status string, page, limit int) ([]InstallmentResponse, int64, error) {
	switch status {
	case "", model.InstallmentPending, model.InstallmentPaid, model.InstallmentOverdue:
	default:
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	payments, total, err := s.installmentRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapInstallments(payments), total, nil
}

func (s *installmentService) ListByCustomer(ctx context.Context, customerID string) ([]InstallmentResponse, error) {
	cid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
	}
	payments, err := s.installmentRepo.ListByCustomer(ctx, cid)
	if err != nil {
		return nil, err
	}
	return mapInstallments(payments), nil
}

func (s *installmentService) ListOverdue(ctx context.Context) ([]InstallmentResponse, error) {
	payments, err := s.installmentRepo.ListOverdue(ctx, today(s.now()))
	if err != nil {
		return nil, err
	}
	return mapInstallments(payments), nil
}

// MarkPaid settles a pending or overdue installment, stamping today as the
// paid date. There is no reverse operation.
func (s *installmentService) MarkPaid(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid installment id", ErrInvalidArgument)
	}
	return s.installmentRepo.MarkPaid(ctx, pid, today(s.now()))
}

// SweepOverdue reclassifies every pending installment past its due date and
// reports how many rows changed. Safe to run repeatedly and concurrently
// with sales and payment marking.
func (s *installmentService) SweepOverdue(ctx context.Context) (int64, error) {
	count, err := s.installmentRepo.SweepOverdue(ctx, today(s.now()))
	if err != nil {
		return 0, err
	}
	if count > 0 && s.broadcaster != nil {
		s.broadcaster.Publish("installments_overdue", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

// today truncates to a date in local time, matching the date-typed columns
func today(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func mapInstallments(payments []model.InstallmentPayment) []InstallmentResponse {
	res := make([]InstallmentResponse, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		entry := InstallmentResponse{
			ID:         p.ID.String(),
			InvoiceID:  p.InvoiceID.String(),
			CustomerID: p.CustomerID.String(),
			Amount:     p.Amount.String(),
			DueDate:    p.DueDate.Format("2006-01-02"),
			Status:     p.Status,
		}
		if p.PaidDate != nil {
			paid := p.PaidDate.Format("2006-01-02")
			entry.PaidDate = &paid
		}
		if p.Invoice != nil {
			entry.InvoiceNumber = p.Invoice.InvoiceNumber
		}
		if p.Customer != nil {
			entry.CustomerName = p.Customer.Name
			entry.CustomerPhone = p.Customer.Phone
		}
		res = append(res, entry)
	}
	return res
}
