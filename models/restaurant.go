package models

import "time"

// Restaurant is the tenant boundary: every menu, order and staff
// affiliation hangs off exactly one restaurant. The owner reference is
// nulled when the owning user is removed; the restaurant itself stays.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     *uint     `gorm:"index" json:"owner_id,omitempty"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Address     string    `gorm:"type:varchar(255);not null" json:"address"`
	PhoneNumber string    `gorm:"type:varchar(32)" json:"phone_number"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Menus       []Menu    `gorm:"foreignKey:RestaurantID" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
