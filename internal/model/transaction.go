package model

import "time"

// TransactionType classifies what caused a point balance change.
type TransactionType string

const (
	TransactionPurchase          TransactionType = "PURCHASE"
	TransactionMissionCompletion TransactionType = "MISSION_COMPLETION"
	TransactionManual            TransactionType = "MANUAL"
)

// Transaction is one immutable ledger entry. Rows are only ever
// inserted; corrections are new entries with the opposite sign.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"index" json:"user_id"`
	PointsChange int             `json:"points_change"`
	Type         TransactionType `gorm:"index" json:"type"`
	Description  string          `json:"description"`
	Reference    string          `gorm:"uniqueIndex" json:"reference"`
	CreatedAt    time.Time       `json:"created_at"`
}
