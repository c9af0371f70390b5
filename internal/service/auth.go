package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/grocery_shop/internal/hash"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/tokens"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, req transport.Credentials) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validate(&req); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if errors.Is(err, hash.ErrPasswordLength) {
		l.Warn("register_error", "status", 400, "reason", "password length")
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("%w: %s", ErrConflict, err.Error())
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.Credentials) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validate(&req); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if hash.NeedsRehash(user.PasswordHash) {
		if pwHash, err := hash.HashPassword(req.Password); err == nil {
			user.PasswordHash = pwHash
			if err := s.Repo.SaveUser(ctx, user); err != nil {
				l.Warn("password_rehash_failed", "user_id", user.ID, "error", err)
			}
		}
	}

	return s.issue(ctx, user.ID, user.Role)
}

func (s *AuthService) issue(ctx context.Context, userID, role string) (*LoginResult, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.SignAccess(userID, role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.SignRefresh(userID, role, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefresh(ctx, jti, userID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      role == models.RoleAdmin,
	}, nil
}

// Refresh rotates the pair: the presented refresh token is revoked and a
// new one is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "invalid refresh token", "error", err)
		return nil, ErrUnauthorized
	}
	ok, err := s.Repo.RefreshUsable(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.Warn("refresh_failed", "status", 401, "reason", "token expired or revoked")
		return nil, ErrUnauthorized
	}
	if err := s.Repo.RevokeRefresh(ctx, claims.ID); err != nil {
		return nil, err
	}

	// the role may have changed since the token was issued
	role := claims.Role
	if u, err := s.Repo.GetUserByID(ctx, claims.Subject); err == nil {
		role = u.Role
	} else if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthorized
	}

	return s.issue(ctx, claims.Subject, role)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	return s.Repo.RevokeRefresh(ctx, claims.ID)
}

// EnsureAdmin creates the admin account, or promotes an existing user with
// that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	u, err := s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin {
			return nil
		}
		u.Role = models.RoleAdmin
		l.Info("admin_promoted", "user_id", u.ID)
		return s.Repo.SaveUser(ctx, u)
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{Email: email, PasswordHash: pwHash, Role: models.RoleAdmin}
	if err := s.Repo.CreateUserIfNotExists(ctx, admin); err != nil {
		return err
	}
	l.Info("admin_created", "user_id", admin.ID)
	return nil
}
