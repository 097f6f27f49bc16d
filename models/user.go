package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	RoleOwner    = "owner"
	RoleEmployee = "employee"
	RoleCustomer = "customer"
)

// ErrRestaurantRequired is returned by the BeforeSave hook when an
// employee or customer is written without a restaurant affiliation.
var ErrRestaurantRequired = errors.New("a restaurant must be assigned for this role")

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_restaurant" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	Role         string      `gorm:"type:varchar(20);not null" json:"role"`
	PhoneNumber  string      `gorm:"type:varchar(32)" json:"phone_number,omitempty"`
	Address      string      `gorm:"type:text" json:"address,omitempty"`
	RestaurantID *uint       `gorm:"uniqueIndex:idx_users_email_restaurant" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SuperAdmin   bool        `gorm:"not null;default:false" json:"super_admin"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// BeforeSave enforces the role/affiliation invariant: owners relate to
// restaurants through ownership, never affiliation, while employees and
// customers must belong to exactly one restaurant.
func (u *User) BeforeSave(tx *gorm.DB) error {
	switch u.Role {
	case RoleOwner:
		u.RestaurantID = nil
	case RoleEmployee, RoleCustomer:
		if u.RestaurantID == nil {
			return fmt.Errorf("%w: %s", ErrRestaurantRequired, u.Role)
		}
	}
	return nil
}
