package user

import (
	"fmt"

	"cleaningmanager/database/store"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", store.ErrUnauthorized)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", store.ErrAlreadyExists)
	ErrProfileMissing     = fmt.Errorf("user data not found: %w", store.ErrUnauthorized)
	ErrAccountDisabled    = fmt.Errorf("account is disabled: %w", store.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid or expired token: %w", store.ErrUnauthorized)
	ErrAdminSignupDenied  = fmt.Errorf("only an admin can create admin accounts: %w", store.ErrUnauthorized)
)
