package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type PartyRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

type PartyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// CustomerService covers customers and suppliers; both are plain contact
// records, the customer side additionally backing installment obligations.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req PartyRequest) (PartyResponse, error)
	UpdateCustomer(ctx context.Context, id string, req PartyRequest) (PartyResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomer(ctx context.Context, id string) (PartyResponse, error)
	ListCustomers(ctx context.Context, page, limit int, search string) ([]PartyResponse, int64, error)

	CreateSupplier(ctx context.Context, req PartyRequest) (PartyResponse, error)
	UpdateSupplier(ctx context.Context, id string, req PartyRequest) (PartyResponse, error)
	DeleteSupplier(ctx context.Context, id string) error
	ListSuppliers(ctx context.Context, page, limit int) ([]PartyResponse, int64, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, supplierRepo repository.SupplierRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, supplierRepo: supplierRepo}
}

// --- Customers ---

func (s *customerService) CreateCustomer(ctx context.Context, req PartyRequest) (PartyResponse, error) {
	customer := &model.Customer{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return PartyResponse{}, err
	}
	return PartyResponse{ID: customer.ID.String(), Name: customer.Name, Phone: customer.Phone, Email: customer.Email, Address: customer.Address}, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req PartyRequest) (PartyResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return PartyResponse{}, err
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return PartyResponse{}, err
	}
	return PartyResponse{ID: customer.ID.String(), Name: customer.Name, Phone: customer.Phone, Email: customer.Email, Address: customer.Address}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, customerID)
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (PartyResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("%w: invalid customer id", ErrInvalidArgument)
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return PartyResponse{}, err
	}
	return PartyResponse{ID: customer.ID.String(), Name: customer.Name, Phone: customer.Phone, Email: customer.Email, Address: customer.Address}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int, search string) ([]PartyResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	customers, total, err := s.customerRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}
	res := make([]PartyResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, PartyResponse{ID: c.ID.String(), Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address})
	}
	return res, total, nil
}

// --- Suppliers ---

func (s *customerService) CreateSupplier(ctx context.Context, req PartyRequest) (PartyResponse, error) {
	supplier := &model.Supplier{Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return PartyResponse{}, err
	}
	return PartyResponse{ID: supplier.ID.String(), Name: supplier.Name, Phone: supplier.Phone, Email: supplier.Email, Address: supplier.Address}, nil
}

func (s *customerService) UpdateSupplier(ctx context.Context, id string, req PartyRequest) (PartyResponse, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("%w: invalid supplier id", ErrInvalidArgument)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return PartyResponse{}, err
	}
	supplier.Name = req.Name
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return PartyResponse{}, err
	}
	return PartyResponse{ID: supplier.ID.String(), Name: supplier.Name, Phone: supplier.Phone, Email: supplier.Email, Address: supplier.Address}, nil
}

func (s *customerService) DeleteSupplier(ctx context.Context, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid supplier id", ErrInvalidArgument)
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, supplierID)
}

func (s *customerService) ListSuppliers(ctx context.Context, page, limit int) ([]PartyResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	suppliers, total, err := s.supplierRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]PartyResponse, 0, len(suppliers))
	for _, sp := range suppliers {
		res = append(res, PartyResponse{ID: sp.ID.String(), Name: sp.Name, Phone: sp.Phone, Email: sp.Email, Address: sp.Address})
	}
	return res, total, nil
}
