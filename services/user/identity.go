package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cleaningmanager/database/store"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// AuthToken is the result of a password sign-in.
type AuthToken struct {
	UID          string `json:"uid"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// IdentityProvider owns accounts and credentials. Profiles live in the record store.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*AuthToken, error)
	// CreateAccount returns the new account's uid; ErrEmailTaken if the email is in use.
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
	// VerifyIDToken returns the uid of a valid, unrevoked token.
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
	RevokeSessions(ctx context.Context, uid string) error
}

// FirebaseIdentityProvider uses the Admin SDK for account management and the
// Identity Toolkit REST API for email/password sign-in.
type FirebaseIdentityProvider struct {
	auth    *auth.Client
	toolkit *identitytoolkit.Service
}

func NewFirebaseIdentityProvider(ctx context.Context, app *firebase.App, apiKey string) (*FirebaseIdentityProvider, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit client: %w", err)
	}
	return &FirebaseIdentityProvider{auth: authClient, toolkit: toolkit}, nil
}

func (p *FirebaseIdentityProvider) SignIn(ctx context.Context, email, password string) (*AuthToken, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classifySignInError(err)
	}
	return &AuthToken{
		UID:          resp.LocalId,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (p *FirebaseIdentityProvider) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	rec, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("create account: %w", err)
	}
	return rec.UID, nil
}

func (p *FirebaseIdentityProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.auth.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("delete account %s: %w", uid, err)
	}
	return nil
}

func (p *FirebaseIdentityProvider) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := p.auth.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return "", classifyTokenError(err)
	}
	return token.UID, nil
}

func (p *FirebaseIdentityProvider) RevokeSessions(ctx context.Context, uid string) error {
	if err := p.auth.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke sessions for %s: %w", uid, err)
	}
	return nil
}

// classifyTokenError keeps 401 for token problems. Anything else means the
// identity backend could not answer.
func classifyTokenError(err error) error {
	switch {
	case auth.IsUserDisabled(err):
		return fmt.Errorf("%w: %w", ErrAccountDisabled, err)
	case auth.IsIDTokenRevoked(err), auth.IsIDTokenExpired(err), auth.IsIDTokenInvalid(err), auth.IsUserNotFound(err):
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	default:
		return fmt.Errorf("%w: verify id token: %w", store.ErrStoreUnavailable, err)
	}
}

// classifySignInError maps Identity Toolkit error codes onto error kinds.
func classifySignInError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: sign in: %v", store.ErrStoreUnavailable, err)
	}
	code := apiErr.Message
	switch {
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "INVALID_EMAIL"):
		return ErrInvalidCredentials
	case strings.HasPrefix(code, "USER_DISABLED"):
		return ErrAccountDisabled
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return fmt.Errorf("%w: too many sign-in attempts", store.ErrStoreUnavailable)
	default:
		return fmt.Errorf("sign in: %w", err)
	}
}
