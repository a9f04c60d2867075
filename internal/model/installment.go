package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus enum constants
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

// InstallmentPayment is one entry of an invoice's amortization schedule.
// Created pending in bulk at sale time; moves to paid when the customer
// settles it, or to overdue when the sweeper finds its due date passed.
type InstallmentPayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice    *Invoice        `gorm:"foreignKey:InvoiceID" json:"-"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	DueDate    time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	PaidDate   *time.Time      `gorm:"type:date" json:"paid_date"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending, paid, overdue
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
