package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/tokens"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// AuthMiddleware reads the access cookie and, when it is missing or
// expired, rotates the pair through the refresh cookie.
type AuthMiddleware struct {
	JWTSecret []byte
	Auth      *service.AuthService
	Secure    bool
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authenticate(c); err != nil {
			return err
		}
		return next(c)
	}
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authenticate(c); err != nil {
			return err
		}
		if Role(c) != models.RoleAdmin {
			logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 403, "reason", "not an admin", "user_id", UserID(c))
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
		return next(c)
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("mw", "auth")

	if ac, err := c.Cookie(tokens.AccessCookie); err == nil && ac.Value != "" {
		claims, err := tokens.AccessClaimsFromToken(ac.Value, m.JWTSecret)
		if err == nil {
			setUser(c, claims.Subject, claims.Role)
			return nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			l.Warn("auth_error", "status", 401, "reason", "invalid access token", "error", err)
			m.clear(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
	}

	rc, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || rc.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	res, err := m.Auth.Refresh(c.Request().Context(), rc.Value)
	if err != nil {
		l.Warn("auth_error", "status", 401, "reason", "refresh failed", "error", err)
		m.clear(c)
		if errors.Is(err, service.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, m.Secure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, m.Secure))

	role := models.RoleUser
	if res.IsAdmin {
		role = models.RoleAdmin
	}
	setUser(c, res.UserID, role)
	l.Info("tokens_rotated", "user_id", res.UserID)
	return nil
}

func (m *AuthMiddleware) clear(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", m.Secure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", m.Secure))
}

func setUser(c echo.Context, userID, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}

func UserID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}
