package models

import (
	"time"
)

// DefaultImage is the placeholder assigned to products created without an
// uploaded picture. Deleting a product never removes this file.
const DefaultImage = "default.jpg"

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	Name        string    `gorm:"size:100;not null"                     json:"name"`
	Description string    `gorm:"not null"                              json:"description"`
	Price       float64   `gorm:"not null"                              json:"price"`
	OldPrice    *float64  `json:"old_price,omitempty"`
	Image       string    `gorm:"size:100;not null;default:default.jpg" json:"image"`
	Category    string    `gorm:"size:50;not null;index"                json:"category"`
	// No column default: gorm drops zero-valued fields that carry one on
	// Create, so a false value would never reach the database. The create
	// handler sets the stocked default.
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasDiscount reports whether an old price is recorded above the current
// one. Value receiver so templates can call it on list elements.
func (p Product) HasDiscount() bool {
	return p.OldPrice != nil && *p.OldPrice > p.Price
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:80;unique;not null"  json:"username"`
	PasswordHash string `gorm:"size:120;not null"        json:"-"`
	IsAdmin      bool   `gorm:"default:false"            json:"is_admin"`
}
