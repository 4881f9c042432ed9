package user

import (
	"context"
	"time"

	userRepo "cleaningmanager/database/repository/user"
	"cleaningmanager/models"

	"go.uber.org/zap"
)

type UserService interface {
	// SignUp creates the account and its profile. callerIsAdmin gates admin sign-ups.
	SignUp(ctx context.Context, reg models.UserRegistration, callerIsAdmin bool) (*models.User, error)
	SignIn(ctx context.Context, creds models.Credentials) (*AuthResponse, error)
	RestoreSession(ctx context.Context, idToken string) (*Session, error)
	SignOut(ctx context.Context, uid string) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// SetUserActive toggles a profile; inactive users cannot sign in or restore sessions.
	SetUserActive(ctx context.Context, uid string, active bool) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Users    userRepo.UserRepository
	Identity IdentityProvider
	// Cache is optional.
	Cache    SessionCache
	Notifier *SessionNotifier
	Logger   *zap.Logger
	now      func() time.Time
}

func NewDefaultUserService(users userRepo.UserRepository, identity IdentityProvider, cache SessionCache, notifier *SessionNotifier, logger *zap.Logger) *DefaultUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewSessionNotifier()
	}
	return &DefaultUserService{
		Users:    users,
		Identity: identity,
		Cache:    cache,
		Notifier: notifier,
		Logger:   logger,
		now:      time.Now,
	}
}

// AuthResponse is returned by a successful sign-in.
type AuthResponse struct {
	User         models.User `json:"user"`
	IDToken      string      `json:"idToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
}
