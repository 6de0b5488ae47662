package domain

import "time"

// User is an account holder. Accounts are provisioned by an admin; there is no
// self-signup.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose this via JSON
	FullName     string    `gorm:"size:255" json:"fullName,omitempty"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	IsAdmin      bool      `gorm:"not null" json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanSignIn reports whether the account may authenticate.
func (u *User) CanSignIn() bool {
	return u != nil && u.IsActive
}
