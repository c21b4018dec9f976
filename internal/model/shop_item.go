package model

import "time"

// ShopItem is a catalog entry users can spend points on.
// Stock never drops below zero; purchases decrement it atomically.
type ShopItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
