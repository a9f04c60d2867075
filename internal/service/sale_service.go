package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventBroadcaster pushes committed ledger events to connected terminals.
// A nil broadcaster is valid and drops events.
type EventBroadcaster interface {
	Publish(event string, data map[string]interface{})
}

// --- DTOs ---

type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     string `json:"price"`    // optional; defaults to the product's current price
	Discount  string `json:"discount"` // optional line discount
}

type CreateSaleRequest struct {
	InvoiceNumber   string            `json:"invoice_number"` // generated when empty
	CustomerID      string            `json:"customer_id"`
	Subtotal        string            `json:"subtotal" binding:"required"`
	Discount        string            `json:"discount"`
	Tax             string            `json:"tax"`
	Total           string            `json:"total" binding:"required"`
	PaymentMethod   string            `json:"payment_method" binding:"required,oneof=cash card multi installment"`
	DownPayment     string            `json:"down_payment"`
	InstallmentRate string            `json:"installment_rate"`
	TermMonths      int               `json:"term_months"` // installment only; defaults to 12
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

type SaleItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

type InvoiceResponse struct {
	ID              string             `json:"id"`
	InvoiceNumber   string             `json:"invoice_number"`
	CustomerID      *string            `json:"customer_id"`
	CustomerName    string             `json:"customer_name,omitempty"`
	UserID          string             `json:"user_id"`
	UserName        string             `json:"user_name,omitempty"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	Tax             string             `json:"tax"`
	Total           string             `json:"total"`
	PaymentMethod   string             `json:"payment_method"`
	DownPayment     string             `json:"down_payment"`
	InstallmentRate string             `json:"installment_rate"`
	Items           []SaleItemResponse `json:"items,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

type SaleFilter struct {
	CustomerID    string
	PaymentMethod string
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD, inclusive
	Page          int
	Limit         int
}

// --- Interface ---

type SaleService interface {
	CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	GetInvoiceByNumber(ctx context.Context, number string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter SaleFilter) ([]InvoiceResponse, int64, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type saleService struct {
	invoiceRepo     repository.InvoiceRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	installmentRepo repository.InstallmentRepository
	txManager       repository.TransactionManager
	broadcaster     EventBroadcaster
}

func NewSaleService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	installmentRepo repository.InstallmentRepository,
	txManager repository.TransactionManager,
	broadcaster EventBroadcaster,
) SaleService {
	return &saleService{
		invoiceRepo:     invoiceRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		installmentRepo: installmentRepo,
		txManager:       txManager,
		broadcaster:     broadcaster,
	}
}

// --- Implementation ---

// CreateSale persists the invoice header, its line items with product
// snapshots, the stock decrements, and (for installment sales) the pending
// payment schedule as one transaction. A failure at any step rolls back
// every prior write of this call.
func (s *saleService) CreateSale(ctx context.Context, userID string, req CreateSaleRequest) (InvoiceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidArgument)
	}
	if len(req.Items) == 0 {
		return InvoiceResponse{}, fmt.Errorf("%w: sale needs at least one line item", ErrInvalidArgument)
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return InvoiceResponse{}, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidArgument, i)
		}
	}

	subtotal, err := parseAmount(req.Subtotal, "subtotal")
	if err != nil {
		return InvoiceResponse{}, err
	}
	discount, err := parseOptionalAmount(req.Discount, "discount")
	if err != nil {
		return InvoiceResponse{}, err
	}
	tax, err := parseOptionalAmount(req.Tax, "tax")
	if err != nil {
		return InvoiceResponse{}, err
	}
	total, err := parseAmount(req.Total, "total")
	if err != nil {
		return InvoiceResponse{}, err
	}
	downPayment, err := parseOptionalAmount(req.DownPayment, "down_payment")
	if err != nil {
		return InvoiceResponse{}, err
	}
	rate, err := parseOptionalAmount(req.InstallmentRate, "installment_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		parsed, parseErr := uuid.Parse(req.CustomerID)
		if parseErr != nil {
			return InvoiceResponse{}, fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
		}
		customerID = &parsed
	}

	termMonths := req.TermMonths
	if req.PaymentMethod == model.PaymentInstallment {
		if customerID == nil {
			return InvoiceResponse{}, fmt.Errorf("%w: installment sale requires a customer", ErrInvalidArgument)
		}
		if termMonths == 0 {
			termMonths = DefaultTermMonths
		}
		if termMonths <= 0 {
			return InvoiceResponse{}, fmt.Errorf("%w: term months must be positive", ErrInvalidArgument)
		}
	}

	number := req.InvoiceNumber
	if number == "" {
		number = generateInvoiceNumber()
	}

	invoice := model.Invoice{
		InvoiceNumber:   number,
		CustomerID:      customerID,
		UserID:          uid,
		Subtotal:        subtotal,
		Discount:        discount,
		Tax:             tax,
		Total:           total,
		PaymentMethod:   req.PaymentMethod,
		DownPayment:     downPayment,
		InstallmentRate: rate,
	}

	type stockEvent struct {
		productID string
		quantity  int
	}
	var events []stockEvent

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if customerID != nil {
			if _, findErr := s.customerRepo.FindByID(txCtx, *customerID); findErr != nil {
				return fmt.Errorf("customer not found: %w", findErr)
			}
		}

		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		for _, itemReq := range req.Items {
			pid, parseErr := uuid.Parse(itemReq.ProductID)
			if parseErr != nil {
				return fmt.Errorf("%w: invalid product id %q", ErrInvalidArgument, itemReq.ProductID)
			}
			product, findErr := s.productRepo.FindByID(txCtx, pid)
			if findErr != nil {
				return fmt.Errorf("product %s: %w", itemReq.ProductID, findErr)
			}

			price := decimal.NewFromFloat(product.Price)
			if itemReq.Price != "" {
				price, parseErr = decimal.NewFromString(itemReq.Price)
				if parseErr != nil {
					return fmt.Errorf("%w: invalid item price", ErrInvalidArgument)
				}
			}
			itemDiscount := decimal.Zero
			if itemReq.Discount != "" {
				itemDiscount, parseErr = decimal.NewFromString(itemReq.Discount)
				if parseErr != nil {
					return fmt.Errorf("%w: invalid item discount", ErrInvalidArgument)
				}
			}
			lineTotal := price.Mul(decimal.NewFromInt(int64(itemReq.Quantity))).Sub(itemDiscount)

			item := &model.InvoiceItem{
				InvoiceID:   invoice.ID,
				ProductID:   pid,
				ProductName: product.Name,
				Quantity:    itemReq.Quantity,
				Price:       price,
				Discount:    itemDiscount,
				Total:       lineTotal,
			}
			if createErr := s.invoiceRepo.CreateItem(txCtx, item); createErr != nil {
				return fmt.Errorf("failed to create invoice item: %w", createErr)
			}

			// Stock may go negative; sales are not blocked on availability.
			if adjErr := s.productRepo.AdjustStock(txCtx, pid, -itemReq.Quantity); adjErr != nil {
				return fmt.Errorf("failed to adjust stock for %s: %w", itemReq.ProductID, adjErr)
			}
			events = append(events, stockEvent{productID: pid.String(), quantity: itemReq.Quantity})
		}

		if req.PaymentMethod == model.PaymentInstallment {
			entries, schErr := Schedule(total, downPayment, termMonths, time.Now())
			if schErr != nil {
				return schErr
			}
			payments := make([]model.InstallmentPayment, 0, len(entries))
			for _, entry := range entries {
				payments = append(payments, model.InstallmentPayment{
					InvoiceID:  invoice.ID,
					CustomerID: *customerID,
					Amount:     entry.Amount,
					DueDate:    entry.DueDate,
					Status:     model.InstallmentPending,
				})
			}
			if batchErr := s.installmentRepo.CreateBatch(txCtx, payments); batchErr != nil {
				return fmt.Errorf("failed to persist installment schedule: %w", batchErr)
			}
		}

		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	if s.broadcaster != nil {
		for _, ev := range events {
			s.broadcaster.Publish("stock_changed", map[string]interface{}{
				"product_id": ev.productID,
				"delta":      -ev.quantity,
				"invoice":    invoice.InvoiceNumber,
			})
		}
	}

	return mapInvoice(&invoice, nil), nil
}

func (s *saleService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("%w: invalid invoice id", ErrInvalidArgument)
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return mapInvoice(invoice, invoice.Items), nil
}

func (s *saleService) GetInvoiceByNumber(ctx context.Context, number string) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return mapInvoice(invoice, invoice.Items), nil
}

func (s *saleService) ListInvoices(ctx context.Context, filter SaleFilter) ([]InvoiceResponse, int64, error) {
	repoFilter := repository.InvoiceFilter{
		PaymentMethod: filter.PaymentMethod,
		Page:          filter.Page,
		Limit:         filter.Limit,
	}
	if repoFilter.Page <= 0 {
		repoFilter.Page = 1
	}
	if repoFilter.Limit <= 0 {
		repoFilter.Limit = 20
	}
	if filter.CustomerID != "" {
		parsed, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
		}
		repoFilter.CustomerID = &parsed
	}
	if filter.StartDate != "" {
		start, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid start date", ErrInvalidArgument)
		}
		repoFilter.StartDate = &start
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid end date", ErrInvalidArgument)
		}
		end = end.AddDate(0, 0, 1) // inclusive end of day
		repoFilter.EndDate = &end
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		res = append(res, mapInvoice(&invoices[i], nil))
	}
	return res, total, nil
}

// DeleteInvoice removes the invoice; its items and installment rows cascade.
func (s *saleService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid invoice id", ErrInvalidArgument)
	}
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Delete(txCtx, invoiceID)
	})
}

// --- helpers ---

func parseAmount(raw, field string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid %s", ErrInvalidArgument, field)
	}
	return v, nil
}

func parseOptionalAmount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(raw, field)
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

func mapInvoice(invoice *model.Invoice, items []model.InvoiceItem) InvoiceResponse {
	res := InvoiceResponse{
		ID:              invoice.ID.String(),
		InvoiceNumber:   invoice.InvoiceNumber,
		UserID:          invoice.UserID.String(),
		Subtotal:        invoice.Subtotal.String(),
		Discount:        invoice.Discount.String(),
		Tax:             invoice.Tax.String(),
		Total:           invoice.Total.String(),
		PaymentMethod:   invoice.PaymentMethod,
		DownPayment:     invoice.DownPayment.String(),
		InstallmentRate: invoice.InstallmentRate.String(),
		CreatedAt:       invoice.CreatedAt.Format(time.RFC3339),
	}
	if invoice.CustomerID != nil {
		id := invoice.CustomerID.String()
		res.CustomerID = &id
	}
	if invoice.Customer != nil {
		res.CustomerName = invoice.Customer.Name
	}
	if invoice.User != nil {
		res.UserName = invoice.User.Username
	}
	for _, item := range items {
		res.Items = append(res.Items, SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.String(),
			Discount:    item.Discount.String(),
			Total:       item.Total.String(),
		})
	}
	return res
}
