// Package models contains the domain structures shared between the HTTP
// layer, the business services and the storage layer: users, the catalog
// (boards and subjects), subscriptions, study materials, payments and
// announcement updates.
package models

import "time"

// User represents a registered student or administrator.
type User struct {
	Email        string // Unique login identifier
	PasswordHash string // bcrypt hash, never serialized
	Name         string
	Phone        string
	City         string
	Role         string // "user" or "admin"
	CreatedAt    time.Time
}

// UserProfile is the public projection of a User returned to clients.
// The password hash never leaves the service.
type UserProfile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Profile strips the credentials off a User.
func (u *User) Profile() UserProfile {
	return UserProfile{
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		City:      u.City,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
