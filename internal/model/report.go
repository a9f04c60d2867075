package model

import "time"

// SalesSummary aggregates invoice totals over a date range
type SalesSummary struct {
	TotalSales   string    `json:"total_sales"`
	InvoiceCount int       `json:"invoice_count"`
	TotalExpense string    `json:"total_expense"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// ProductRanking represents a product ranked by sold quantity
type ProductRanking struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
	TotalValue    string `json:"total_value"`
}
