package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_error", "status", 409, "reason", "user exists")
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		default:
			l.Error("register_error", "status", 500, "reason", "cannot register", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register")
		}
	}

	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_error", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		l.Error("login_error", "status", 500, "reason", "cannot login", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot login")
	}

	c.SetCookie(CreateCookie("accessToken", res.AccessToken, "/", time.Now().Add(service.AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", res.RefreshToken, "/", time.Now().Add(service.RefreshTokenTTL)))

	l.Info("login_success", "userID", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"is_admin":      res.User.Role == "admin",
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	raw := ""
	if ck, err := c.Cookie("refreshToken"); err == nil {
		raw = ck.Value
	}

	if err := h.Svc.LogOut(ctx, raw); err != nil {
		l.Error("logout_error", "status", 500, "reason", "cannot revoke token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot logout")
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(CreateCookie("refreshToken", "", "/", expired))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	ck, err := c.Cookie("refreshToken")
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "missing refresh cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	access, refresh, err := h.Svc.Refresh(ctx, ck.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			l.Warn("refresh_error", "status", 401, "reason", "invalid refresh token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_error", "status", 500, "reason", "cannot rotate token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot rotate token")
	}

	c.SetCookie(CreateCookie("accessToken", access, "/", time.Now().Add(service.AccessTokenTTL)))
	c.SetCookie(CreateCookie("refreshToken", refresh, "/", time.Now().Add(service.RefreshTokenTTL)))

	l.Info("refresh_success")
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}
