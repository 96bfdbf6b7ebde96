package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a product in the catalog. Prices are integer currency units.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string         `json:"name" validate:"required,min=2,max=100"`
	Description string         `json:"description" validate:"omitempty,max=500"`
	Category    string         `json:"category" gorm:"index;type:varchar(64)" validate:"omitempty,max=64"`
	Price       int64          `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	ImageURL    string         `json:"image_url" validate:"omitempty,max=255"`
	Badge       string         `json:"badge,omitempty" validate:"omitempty,max=32"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
