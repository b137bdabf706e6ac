package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow-api/internal/model"
)

const minPasswordLength = 8

// UserStore is the credential store the auth service depends on. It must
// enforce email uniqueness atomically (two concurrent Create calls for the
// same email may not both succeed).
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, email string, passwordHash string) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
}

type AuthService struct {
	users      UserStore
	tokens     *TokenService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users UserStore, tokens *TokenService, accessTTL time.Duration, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new user with a bcrypt digest of the password. New
// accounts start active and without superuser rights.
func (s *AuthService) Register(ctx context.Context, email string, password string) (model.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return model.User{}, err
	}
	if len(password) < minPasswordLength {
		return model.User{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, minPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, email, hash)
}

// Authenticate validates an email/password pair. Unknown email, wrong
// password, and disabled account all return ErrInvalidCredentials so an
// attacker cannot probe which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return model.User{}, model.ErrInvalidCredentials
	}

	if !user.IsActive {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a fresh access/refresh token pair with the
// user's email as subject.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return model.TokenPair{}, err
	}

	accessToken, err := s.tokens.Issue(user.Email, model.TokenKindAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.Issue(user.Email, model.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Refresh exchanges a valid refresh token for a brand-new access token. The
// refresh token itself is neither rotated nor tracked server-side; it stays
// usable until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AccessToken, error) {
	user, err := s.resolve(ctx, refreshToken, model.TokenKindRefresh)
	if err != nil {
		return model.AccessToken{}, err
	}

	accessToken, err := s.tokens.Issue(user.Email, model.TokenKindAccess, s.accessTTL)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}

	return model.AccessToken{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// ResolveAccess turns a bearer access token into the authenticated user.
// Checks run in order and short-circuit: token validity, kind, subject
// existence, account status.
func (s *AuthService) ResolveAccess(ctx context.Context, token string) (model.User, error) {
	return s.resolve(ctx, token, model.TokenKindAccess)
}

func (s *AuthService) resolve(ctx context.Context, token string, kind model.TokenKind) (model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}

	if claims.Kind != kind {
		return model.User{}, model.ErrWrongTokenKind
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrUnknownSubject
	}
	if err != nil {
		return model.User{}, err
	}

	if !user.IsActive {
		return model.User{}, model.ErrAccountDisabled
	}

	return user, nil
}

// UpdateUser applies a partial self-update. A new password is re-hashed; a
// new email must not collide with an existing account.
func (s *AuthService) UpdateUser(ctx context.Context, userID int64, req model.UpdateMeRequest) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return model.User{}, err
		}
		user.Email = email
	}

	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return model.User{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrInvalidInput, minPasswordLength)
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	return s.users.Update(ctx, user)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: malformed email address", model.ErrInvalidInput)
	}

	return nil
}
