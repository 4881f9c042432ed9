package user

import (
	"context"
	"fmt"
	"strings"

	"cleaningmanager/database/store"
	"cleaningmanager/models"

	"go.uber.org/zap"
)

func (s *DefaultUserService) SignUp(ctx context.Context, reg models.UserRegistration, callerIsAdmin bool) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	role := reg.Role
	if role == "" {
		role = models.RoleCleaner
	}
	if role == models.RoleAdmin && !callerIsAdmin {
		return nil, ErrAdminSignupDenied
	}

	uid, err := s.Identity.CreateAccount(ctx, email, reg.Password, reg.Name)
	if err != nil {
		return nil, err
	}

	profile := models.User{
		ID:       uid,
		Email:    email,
		Name:     strings.TrimSpace(reg.Name),
		Role:     role,
		Phone:    strings.TrimSpace(reg.Phone),
		IsActive: true,
	}
	if err := s.Users.Create(ctx, profile); err != nil {
		s.Logger.Error("SignUp: profile write failed, removing account", zap.String("uid", uid), zap.Error(err))
		if delErr := s.Identity.DeleteAccount(ctx, uid); delErr != nil {
			s.Logger.Error("SignUp: failed to remove orphaned account", zap.String("uid", uid), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	s.Logger.Info("user signed up", zap.String("uid", uid), zap.String("role", role))

	// Reload for the store-assigned timestamps.
	created, err := s.Users.GetByID(ctx, uid)
	if err != nil || created == nil {
		return &profile, nil
	}
	return created, nil
}

func (s *DefaultUserService) SignIn(ctx context.Context, creds models.Credentials) (*AuthResponse, error) {
	token, err := s.Identity.SignIn(ctx, strings.ToLower(strings.TrimSpace(creds.Email)), creds.Password)
	if err != nil {
		return nil, err
	}
	profile, err := s.activeProfile(ctx, token.UID)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, *profile)
	s.Notifier.Publish(SessionEvent{Type: SessionSignedIn, UID: token.UID, At: s.now()})

	return &AuthResponse{
		User:         *profile,
		IDToken:      token.IDToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}, nil
}

// RestoreSession resolves a bearer token to its caller. Profiles are served
// from the cache when present.
func (s *DefaultUserService) RestoreSession(ctx context.Context, idToken string) (*Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrInvalidToken
	}
	uid, err := s.Identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		cached, found, err := s.Cache.Get(ctx, uid)
		if err != nil {
			s.Logger.Warn("RestoreSession: cache read failed", zap.String("uid", uid), zap.Error(err))
		} else if found && cached.IsActive {
			return &Session{UID: uid, User: *cached}, nil
		} else if found {
			s.cacheDrop(ctx, uid)
			return nil, ErrAccountDisabled
		}
	}

	profile, err := s.activeProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.cachePut(ctx, *profile)
	s.Notifier.Publish(SessionEvent{Type: SessionRestored, UID: uid, At: s.now()})
	return &Session{UID: uid, User: *profile}, nil
}

func (s *DefaultUserService) SignOut(ctx context.Context, uid string) error {
	if err := s.Identity.RevokeSessions(ctx, uid); err != nil {
		return err
	}
	s.cacheDrop(ctx, uid)
	s.Notifier.Publish(SessionEvent{Type: SessionSignedOut, UID: uid, At: s.now()})
	return nil
}

func (s *DefaultUserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", uid, store.ErrNotFound)
	}
	return u, nil
}

// SetUserActive enables or disables a profile. Disabling also revokes the
// account's refresh tokens.
func (s *DefaultUserService) SetUserActive(ctx context.Context, uid string, active bool) (*models.User, error) {
	if _, err := s.GetUser(ctx, uid); err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, uid, map[string]any{"isActive": active}); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	s.cacheDrop(ctx, uid)
	if !active {
		if err := s.Identity.RevokeSessions(ctx, uid); err != nil {
			s.Logger.Warn("SetUserActive: revoke failed", zap.String("uid", uid), zap.Error(err))
		}
	}
	s.Logger.Info("user active flag changed", zap.String("uid", uid), zap.Bool("active", active))
	return s.GetUser(ctx, uid)
}

func (s *DefaultUserService) cacheDrop(ctx context.Context, uid string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Drop(ctx, uid); err != nil {
		s.Logger.Warn("user cache drop failed", zap.String("uid", uid), zap.Error(err))
	}
}

func (s *DefaultUserService) activeProfile(ctx context.Context, uid string) (*models.User, error) {
	profile, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user data: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileMissing
	}
	if !profile.IsActive {
		return nil, ErrAccountDisabled
	}
	return profile, nil
}

func (s *DefaultUserService) cachePut(ctx context.Context, u models.User) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Put(ctx, u); err != nil {
		s.Logger.Warn("session cache write failed", zap.String("uid", u.ID), zap.Error(err))
	}
}
