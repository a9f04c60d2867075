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

type ExpenseRequest struct {
	Category    string `json:"category" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
}

type ExpenseResponse struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name,omitempty"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID string, req ExpenseRequest) (ExpenseResponse, error)
	UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, startDate, endDate string, page, limit int) ([]ExpenseResponse, int64, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID string, req ExpenseRequest) (ExpenseResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidArgument)
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		return ExpenseResponse{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid date", ErrInvalidArgument)
	}

	expense := &model.Expense{
		Category:    req.Category,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		UserID:      uid,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return ExpenseResponse{}, err
	}
	return mapExpense(expense), nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req ExpenseRequest) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid expense id", ErrInvalidArgument)
	}
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return ExpenseResponse{}, err
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		return ExpenseResponse{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("%w: invalid date", ErrInvalidArgument)
	}

	expense.Category = req.Category
	expense.Amount = amount
	expense.Description = req.Description
	expense.Date = date
	if err := s.repo.Update(ctx, expense); err != nil {
		return ExpenseResponse{}, err
	}
	return mapExpense(expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid expense id", ErrInvalidArgument)
	}
	if _, err := s.repo.FindByID(ctx, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, startDate, endDate string, page, limit int) ([]ExpenseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var start, end *time.Time
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid start date", ErrInvalidArgument)
		}
		start = &parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid end date", ErrInvalidArgument)
		}
		end = &parsed
	}

	expenses, total, err := s.repo.List(ctx, start, end, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, mapExpense(&expenses[i]))
	}
	return res, total, nil
}

func mapExpense(e *model.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ID:          e.ID.String(),
		Category:    e.Category,
		Amount:      e.Amount.String(),
		Description: e.Description,
		Date:        e.Date.Format("2006-01-02"),
		UserID:      e.UserID.String(),
	}
	if e.User != nil {
		res.UserName = e.User.Username
	}
	return res
}
