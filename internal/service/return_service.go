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

type CreateReturnRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Amount    string `json:"amount" binding:"required"` // refunded amount
	Reason    string `json:"reason"`
	Date      string `json:"date"` // YYYY-MM-DD, defaults to today
}

type ReturnResponse struct {
	ID            string `json:"id"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	Amount        string `json:"amount"`
	Reason        string `json:"reason"`
	Date          string `json:"date"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name,omitempty"`
}

// --- Interface ---

type ReturnService interface {
	CreateReturn(ctx context.Context, userID string, req CreateReturnRequest) (ReturnResponse, error)
	ListReturns(ctx context.Context, page, limit int) ([]ReturnResponse, int64, error)
}

type returnService struct {
	returnRepo  repository.ReturnRepository
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	txManager   repository.TransactionManager
	broadcaster EventBroadcaster
}

func NewReturnService(
	returnRepo repository.ReturnRepository,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	txManager repository.TransactionManager,
	broadcaster EventBroadcaster,
) ReturnService {
	return &returnService{
		returnRepo:  returnRepo,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		txManager:   txManager,
		broadcaster: broadcaster,
	}
}

// --- Implementation ---

// CreateReturn persists the return record and restores the product's stock
// as one transaction. The returned quantity is deliberately not checked
// against the invoice's line items; only the invoice and product references
// themselves must resolve.
func (s *returnService) CreateReturn(ctx context.Context, userID string, req CreateReturnRequest) (ReturnResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ReturnResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidArgument)
	}
	if req.Quantity <= 0 {
		return ReturnResponse{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return ReturnResponse{}, fmt.Errorf("%w: invalid invoice id", ErrInvalidArgument)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return ReturnResponse{}, fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		return ReturnResponse{}, err
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return ReturnResponse{}, fmt.Errorf("%w: invalid date", ErrInvalidArgument)
		}
	}

	var ret model.Return
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID); findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}
		product, findErr := s.productRepo.FindByID(txCtx, productID)
		if findErr != nil {
			return fmt.Errorf("product not found: %w", findErr)
		}

		ret = model.Return{
			InvoiceID:   invoiceID,
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			Amount:      amount,
			Reason:      req.Reason,
			Date:        date,
			UserID:      uid,
		}
		if createErr := s.returnRepo.Create(txCtx, &ret); createErr != nil {
			return fmt.Errorf("failed to create return: %w", createErr)
		}

		if adjErr := s.productRepo.AdjustStock(txCtx, productID, req.Quantity); adjErr != nil {
			return fmt.Errorf("failed to restore stock: %w", adjErr)
		}
		return nil
	})
	if err != nil {
		return ReturnResponse{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish("stock_changed", map[string]interface{}{
			"product_id": productID.String(),
			"delta":      req.Quantity,
			"return_id":  ret.ID.String(),
		})
	}

	return mapReturn(&ret), nil
}

func (s *returnService) ListReturns(ctx context.Context, page, limit int) ([]ReturnResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	returns, total, err := s.returnRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]ReturnResponse, 0, len(returns))
	for i := range returns {
		res = append(res, mapReturn(&returns[i]))
	}
	return res, total, nil
}

func mapReturn(ret *model.Return) ReturnResponse {
	res := ReturnResponse{
		ID:          ret.ID.String(),
		InvoiceID:   ret.InvoiceID.String(),
		ProductID:   ret.ProductID.String(),
		ProductName: ret.ProductName,
		Quantity:    ret.Quantity,
		Amount:      ret.Amount.String(),
		Reason:      ret.Reason,
		Date:        ret.Date.Format("2006-01-02"),
		UserID:      ret.UserID.String(),
	}
	if ret.Invoice != nil {
		res.InvoiceNumber = ret.Invoice.InvoiceNumber
	}
	if ret.User != nil {
		res.UserName = ret.User.Username
	}
	return res
}
