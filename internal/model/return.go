package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return records returned goods against an invoice. Immutable once
// created; committing one restores the product's stock by Quantity.
type Return struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice     *Invoice        `gorm:"foreignKey:InvoiceID" json:"-"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"-"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"` // refunded amount
	Reason      string          `gorm:"type:text" json:"reason"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
