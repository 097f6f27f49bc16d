package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment records one gateway intent per order attempt. The unique
// indexes on IntentID and OrderID are the enforcement point for the
// double-create race: a second concurrent intent for the same order
// surfaces as a duplicate-key error, not a second row.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderID     uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Order       Order     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency    string    `gorm:"type:varchar(3);not null" json:"currency"`
	IntentID    string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"intent_id"`
	ReferenceID string    `gorm:"type:varchar(64);not null" json:"reference_id"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
