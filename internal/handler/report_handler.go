package handler

import (
	"net/http"
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	reports.Use(middleware.RequireRole(model.RoleAdmin))
	{
		reports.GET("/sales", h.SalesSummary)
		reports.GET("/top-products", h.TopProducts)
	}
}

// rangeOrCurrentMonth fills missing bounds with the current calendar month
func rangeOrCurrentMonth(c *gin.Context) (string, string) {
	start := c.Query("start_date")
	end := c.Query("end_date")

	now := time.Now()
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}
	return start, end
}

// SalesSummary returns revenue, expense and profit totals for a period
// @Summary      Sales summary report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD, default first of current month)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD, inclusive, default today)"
// @Success      200         {object}  response.Response{data=model.SalesSummary}
// @Failure      500         {object}  response.Response
// @Router       /reports/sales [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	start, end := rangeOrCurrentMonth(c)

	summary, err := h.reportService.SalesSummary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// TopProducts returns the best-selling products for a period
// @Summary      Top products report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD, default first of current month)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD, inclusive, default today)"
// @Param        limit       query     int     false  "Number of products to return (default 10)"
// @Success      200         {object}  response.Response{data=[]model.ProductRanking}
// @Failure      500         {object}  response.Response
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	start, end := rangeOrCurrentMonth(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rankings, err := h.reportService.TopProducts(c.Request.Context(), start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rankings))
}
