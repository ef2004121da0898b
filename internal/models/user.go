package models

import "time"

// Roles a user can hold. New accounts always start as RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"` // stored lowercased
	Password     string `gorm:"not null" json:"-"`            // bcrypt hash, never serialized
	Role         string `gorm:"default:user" json:"role"`
	IsVerified   bool   `json:"is_verified"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	Followers    int    `gorm:"default:0" json:"followers"`
	Following    int    `gorm:"default:0" json:"following"`

	// Single active refresh token per account. Overwritten on every login,
	// so a newer login invalidates the previous refresh token.
	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
