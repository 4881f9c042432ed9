package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleCleaner = "cleaner"
)

// User is the profile stored under the identity provider's subject id.
type User struct {
	ID        string    `mapstructure:"id" json:"id" validate:"required"`
	Email     string    `mapstructure:"email" json:"email" validate:"required,email"`
	Name      string    `mapstructure:"name" json:"name"`
	Role      string    `mapstructure:"role" json:"role" validate:"required,oneof=admin cleaner"`
	Phone     string    `mapstructure:"phone" json:"phone,omitempty"`
	IsActive  bool      `mapstructure:"isActive" json:"isActive"`
	CreatedAt time.Time `mapstructure:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt time.Time `mapstructure:"updatedAt" json:"updatedAt,omitempty"`
}

func (u User) Fields() map[string]any {
	return map[string]any{
		"email":    u.Email,
		"name":     u.Name,
		"role":     u.Role,
		"phone":    u.Phone,
		"isActive": u.IsActive,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRegistration is the sign-up request.
type UserRegistration struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin cleaner"`
	Phone    string `json:"phone"`
}

// Credentials is the sign-in request.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
