package model

import "time"

// Purchase records one committed shop order. It is written in the same
// transaction as the stock decrement and the point debit.
type Purchase struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	ItemID     uint      `gorm:"index" json:"item_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice int       `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}
