package models

import "time"

// Review is a customer's rating of a product.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36)"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"omitempty,max=1000"`
	CreatedAt time.Time `json:"created_at"`
}
