package models

import "time"

// Cleaner is a member of the cleaning roster. Cleaners are deactivated, never
// deleted, so assignments keep a valid reference to them.
type Cleaner struct {
	ID        string    `mapstructure:"id" json:"id"`
	Name      string    `mapstructure:"name" json:"name" validate:"required"`
	Phone     string    `mapstructure:"phone" json:"phone"`
	Email     string    `mapstructure:"email" json:"email,omitempty" validate:"omitempty,email"`
	IsActive  bool      `mapstructure:"isActive" json:"isActive"`
	Role      string    `mapstructure:"role" json:"role" validate:"omitempty,oneof=admin cleaner"`
	CreatedAt time.Time `mapstructure:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt time.Time `mapstructure:"updatedAt" json:"updatedAt,omitempty"`
}

func (c Cleaner) Fields() map[string]any {
	return map[string]any{
		"name":     c.Name,
		"phone":    c.Phone,
		"email":    c.Email,
		"isActive": c.IsActive,
		"role":     c.Role,
	}
}

// Assignable reports whether the cleaner may be given cleaning work.
func (c Cleaner) Assignable() bool {
	return c.IsActive && c.Role != RoleAdmin
}
