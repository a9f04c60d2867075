package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type ProductRequest struct {
	Name       string  `json:"name" binding:"required"`
	Barcode    string  `json:"barcode"`
	CategoryID string  `json:"category_id"`
	Price      float64 `json:"price" binding:"required,min=0"`
	Cost       float64 `json:"cost" binding:"min=0"`
	Stock      int     `json:"stock"`
	Image      string  `json:"image"`
}

type ProductResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Barcode      *string `json:"barcode"`
	CategoryID   *string `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Price        float64 `json:"price"`
	Cost         float64 `json:"cost"`
	Stock        int     `json:"stock"`
	Image        string  `json:"image"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	GetProductByBarcode(ctx context.Context, barcode string) (ProductResponse, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]ProductResponse, error)
	AdjustStock(ctx context.Context, id string, delta int) (ProductResponse, error)

	CreateCategory(ctx context.Context, req CategoryRequest) (CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req CategoryRequest) (CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txManager    repository.TransactionManager
	broadcaster  EventBroadcaster
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txManager repository.TransactionManager,
	broadcaster EventBroadcaster,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		broadcaster:  broadcaster,
	}
}

// --- Products ---

func (s *productService) CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error) {
	product, err := s.buildProduct(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	}
	existing, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}

	updated, err := s.buildProduct(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}
	existing.Name = updated.Name
	existing.Barcode = updated.Barcode
	existing.CategoryID = updated.CategoryID
	existing.Category = nil
	existing.Price = updated.Price
	existing.Cost = updated.Cost
	existing.Stock = updated.Stock
	existing.Image = updated.Image

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return ProductResponse{}, err
	}
	return mapProduct(existing), nil
}

// DeleteProduct rejects deletion while invoice items still reference the
// product; the sold history owns that snapshot.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	count, err := s.productRepo.CountInvoiceItems(ctx, productID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: product is referenced by %d invoice items", repository.ErrConflict, count)
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (ProductResponse, error) {
	if barcode == "" {
		return ProductResponse{}, fmt.Errorf("%w: barcode is empty", ErrInvalidArgument)
	}
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func (s *productService) ListProducts(ctx context.Context, page, limit int, search string) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	products, total, err := s.productRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, mapProduct(&products[i]))
	}
	return res, total, nil
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]ProductResponse, error) {
	if threshold <= 0 {
		threshold = 10
	}
	products, err := s.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, mapProduct(&products[i]))
	}
	return res, nil
}

// AdjustStock applies a relative delta in place so concurrent adjustments
// never clobber each other. A zero delta is rejected rather than silently
// succeeding.
func (s *productService) AdjustStock(ctx context.Context, id string, delta int) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	}
	if delta == 0 {
		return ProductResponse{}, fmt.Errorf("%w: delta must be non-zero", ErrInvalidArgument)
	}
	if err := s.productRepo.AdjustStock(ctx, productID, delta); err != nil {
		return ProductResponse{}, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish("stock_changed", map[string]interface{}{
			"product_id": product.ID.String(),
			"stock":      product.Stock,
		})
	}
	return mapProduct(product), nil
}

func (s *productService) buildProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:  req.Name,
		Price: req.Price,
		Cost:  req.Cost,
		Stock: req.Stock,
		Image: req.Image,
	}
	if req.Barcode != "" {
		barcode := req.Barcode
		product.Barcode = &barcode
	}
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category id", ErrInvalidArgument)
		}
		if _, err := s.categoryRepo.FindByID(ctx, cid); err != nil {
			return nil, fmt.Errorf("category: %w", err)
		}
		product.CategoryID = &cid
	}
	return product, nil
}

// --- Categories ---

func (s *productService) CreateCategory(ctx context.Context, req CategoryRequest) (CategoryResponse, error) {
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return CategoryResponse{}, err
	}
	return mapCategory(category), nil
}

func (s *productService) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return CategoryResponse{}, fmt.Errorf("%w: invalid category id", ErrInvalidArgument)
	}
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return CategoryResponse{}, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return CategoryResponse{}, err
	}
	return mapCategory(category), nil
}

// DeleteCategory clears the category from its products rather than failing
func (s *productService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid category id", ErrInvalidArgument)
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, categoryID)
}

func (s *productService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, mapCategory(&categories[i]))
	}
	return res, nil
}

func mapProduct(p *model.Product) ProductResponse {
	res := ProductResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Barcode: p.Barcode,
		Price:   p.Price,
		Cost:    p.Cost,
		Stock:   p.Stock,
		Image:   p.Image,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		res.CategoryID = &id
	}
	if p.Category != nil {
		res.CategoryName = p.Category.Name
	}
	return res
}

func mapCategory(c *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
	}
}
