package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	PaymentCash        = "cash"
	PaymentCard        = "card"
	PaymentMulti       = "multi"
	PaymentInstallment = "installment"
)

// Invoice is the header of a completed sale.
// total = subtotal - discount + tax is the caller's contract; the store
// persists the fields as given so downstream consumers can verify it.
type Invoice struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber   string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	CustomerID      *uuid.UUID           `gorm:"type:uuid;index" json:"customer_id"`
	Customer        *Customer            `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	UserID          uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Subtotal        decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	Discount        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Tax             decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"tax"`
	Total           decimal.Decimal      `gorm:"type:decimal(18,4);not null" json:"total"`
	PaymentMethod   string               `gorm:"type:varchar(20);not null" json:"payment_method"` // cash, card, multi, installment
	DownPayment     decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0" json:"down_payment"`
	InstallmentRate decimal.Decimal      `gorm:"type:decimal(10,4);not null;default:0" json:"installment_rate"`
	Items           []InvoiceItem        `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Installments    []InstallmentPayment `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`
	CreatedAt       time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// InvoiceItem is an immutable line of a sale. Name and price are copied
// from the product at sale time so later product edits do not rewrite
// history. The product FK restricts product deletion while lines exist.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"-"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
}
