package model

import "time"

// User is an account holder with a spendable point balance.
// PointBalance is only ever mutated through the point ledger.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PointBalance int       `gorm:"default:0" json:"point_balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
