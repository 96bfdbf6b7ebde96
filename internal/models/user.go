package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a customer account: credentials, profile and loyalty state.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Name        string `json:"name" validate:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	PostalCode  string `json:"postal_code" validate:"omitempty,max=16"`
	Address     string `json:"address" validate:"omitempty,max=255"`

	Points         int64          `json:"points"`
	TotalSpent     int64          `json:"total_spent"`
	MembershipTier MembershipTier `json:"membership_tier" gorm:"type:varchar(16);default:regular"`

	FavoriteProductIDs []string `json:"favorite_product_ids" gorm:"serializer:json"`
	CouponIDs          []string `json:"coupon_ids" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsFavorite reports whether productID is among the user's favorites.
func (u *User) IsFavorite(productID string) bool {
	for _, id := range u.FavoriteProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ToggleFavorite adds productID to the favorites or removes it if present.
// It returns true when the product was added.
func (u *User) ToggleFavorite(productID string) bool {
	for i, id := range u.FavoriteProductIDs {
		if id == productID {
			u.FavoriteProductIDs = append(u.FavoriteProductIDs[:i], u.FavoriteProductIDs[i+1:]...)
			return false
		}
	}
	u.FavoriteProductIDs = append(u.FavoriteProductIDs, productID)
	return true
}
