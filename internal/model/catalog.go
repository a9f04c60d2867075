package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products; deleting a category leaves its products uncategorized
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a sellable item.
// Stock is only ever changed through relative adjustments issued by the
// sale and return transactions; callers never write an absolute value.
type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Barcode    *string    `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Price      float64    `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost       float64    `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	Stock      int        `gorm:"type:int;not null;default:0" json:"stock"`
	Image      string     `gorm:"type:text" json:"image"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
