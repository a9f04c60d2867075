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

type InstallmentHandler struct {
	installmentService service.InstallmentService
}

func NewInstallmentHandler(installmentService service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

func (h *InstallmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	installments := router.Group("/installments")
	installments.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCashier))
	{
		installments.GET("", h.ListInstallments)
		installments.GET("/overdue", h.ListOverdue)
		installments.GET("/customer/:id", h.ListByCustomer)
		installments.PUT("/:id/pay", h.MarkPaid)
		installments.POST("/sweep-overdue", h.SweepOverdue)
	}
}

// ListInstallments returns a paginated installment list, optionally by status
// @Summary      List installments
// @Tags         installments
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (pending, paid, overdue)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /installments [get]
func (h *InstallmentHandler) ListInstallments(c *gin.Context) {
	p := pagination.Parse(c)

	installments, total, err := h.installmentService.List(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"installments": installments,
		"total":        total,
		"page":         p.Page,
		"limit":        p.Limit,
	}))
}

// ListOverdue returns installments currently marked overdue
// @Summary      List overdue installments
// @Tags         installments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.InstallmentResponse}
// @Failure      500  {object}  response.Response
// @Router       /installments/overdue [get]
func (h *InstallmentHandler) ListOverdue(c *gin.Context) {
	installments, err := h.installmentService.ListOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, installments))
}

// ListByCustomer returns all installments owed by one customer
// @Summary      List installments by customer
// @Tags         installments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=[]service.InstallmentResponse}
// @Failure      400  {object}  response.Response
// @Router       /installments/customer/{id} [get]
func (h *InstallmentHandler) ListByCustomer(c *gin.Context) {
	installments, err := h.installmentService.ListByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, installments))
}

// MarkPaid settles a pending or overdue installment
// @Summary      Mark installment paid
// @Description  Marks a pending or overdue installment as paid, stamping today's date
// @Tags         installments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Installment ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /installments/{id}/pay [put]
func (h *InstallmentHandler) MarkPaid(c *gin.Context) {
	if err := h.installmentService.MarkPaid(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "installment paid"}))
}

// SweepOverdue flips every pending installment whose due date has passed to
// overdue. Safe to call repeatedly.
// @Summary      Sweep overdue installments
// @Description  Marks all pending installments past their due date as overdue and reports how many changed
// @Tags         installments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /installments/sweep-overdue [post]
func (h *InstallmentHandler) SweepOverdue(c *gin.Context) {
	count, err := h.installmentService.SweepOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"updated": count,
	}))
}
