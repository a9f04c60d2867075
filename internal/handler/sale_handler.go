package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	sales.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCashier))
	{
		sales.POST("", h.CreateSale)
	}

	invoices := router.Group("/invoices")
	invoices.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCashier))
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/number/:number", h.GetInvoiceByNumber)
		invoices.GET("/:id", h.GetInvoice)
		invoices.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteInvoice)
	}
}

// CreateSale records a complete sale: invoice, item snapshots, stock
// decrements and an installment schedule when requested, all of it or none.
// @Summary      Create sale
// @Description  Atomically records an invoice with its items, adjusts stock, and schedules installments for installment sales
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSaleRequest  true  "Create Sale Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	invoice, err := h.saleService.CreateSale(c.Request.Context(), userIDStr, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated, filterable invoice list
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        customer_id     query     string  false  "Filter by customer ID"
// @Param        payment_method  query     string  false  "Filter by payment method (cash, card, multi, installment)"
// @Param        start_date      query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date        query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Number of items per page (default 20)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      500             {object}  response.Response
// @Router       /invoices [get]
func (h *SaleHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)

	filter := service.SaleFilter{
		CustomerID:    c.Query("customer_id"),
		PaymentMethod: c.Query("payment_method"),
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		Page:          p.Page,
		Limit:         p.Limit,
	}

	invoices, total, err := h.saleService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetInvoice returns a single invoice with its items
// @Summary      Get invoice by ID
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *SaleHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.saleService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetInvoiceByNumber looks an invoice up by its human-facing number
// @Summary      Get invoice by number
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        number  path      string  true  "Invoice number"
// @Success      200     {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404     {object}  response.Response
// @Router       /invoices/number/{number} [get]
func (h *SaleHandler) GetInvoiceByNumber(c *gin.Context) {
	invoice, err := h.saleService.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice with its items and installments
// @Summary      Delete invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [delete]
func (h *SaleHandler) DeleteInvoice(c *gin.Context) {
	if err := h.saleService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "invoice deleted"}))
}
