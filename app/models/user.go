package models

import "time"

const (
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

// User is a storefront account. Vendors own products; the dashboard is
// restricted to them.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string    `gorm:"size:255" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:50;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsVendor() bool { return u.Role == RoleVendor }
