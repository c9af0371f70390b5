package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	authmw "github.com/Skotchmaster/grocery_shop/internal/middleware/auth"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/tokens"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Secure bool
}

func (h *AuthHTTP) setTokens(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, h.Secure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, h.Secure))
}

func (h *AuthHTTP) clearTokens(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.Secure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", h.Secure))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.Credentials
	if err := bind(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.Credentials
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	h.setTokens(c, res)
	l.Info("login_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	rc, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || rc.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, rc.Value)
	if err != nil {
		h.clearTokens(c)
		return fail(l, "refresh_failed", err)
	}

	h.setTokens(c, res)
	return c.JSON(http.StatusOK, echo.Map{
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if rc, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, rc.Value); err != nil {
			h.clearTokens(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke refresh token")
		}
	}

	h.clearTokens(c)
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": authmw.UserID(c),
		"role":    authmw.Role(c),
	})
}
