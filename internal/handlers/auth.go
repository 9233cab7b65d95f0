package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/service"
)

type session struct {
	Token        string `json:"accessToken"`
	ExpiresAt    int64  `json:"expiresAt"`
	RefreshToken string `json:"refreshToken"`
}

type login struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Fingerprint string `json:"fingerprint" validate:"required"`
}

type refresh struct {
	Fingerprint  string `json:"fingerprint" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required,uuid"`
}

type logout struct {
	RefreshToken string `json:"refreshToken" validate:"required,uuid"`
}

// AuthCfg is http specific auth settings
type AuthCfg struct {
	HTTPS              bool
	RefreshTokenCookie string
}

// AuthHTTPHandler is http handler for auth endpoint
type AuthHTTPHandler struct {
	authSvc service.AuthService
	authCfg AuthCfg
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(authSvc service.AuthService, authCfg AuthCfg) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authSvc: authSvc,
		authCfg: authCfg,
	}
}

// Login logins user
// @Summary     Login user
// @Description Verifies provided credentials, sign auth and refresh token. Refresh token is also set as http-only cookie.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       login  body	    login true "User credentials"
// @Success     200    {object} session
// @Failure     400    {object} echo.HTTPError
// @Failure     401    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/login [post]
func (h *AuthHTTPHandler) Login(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.Login(c.Request().Context(), lgn.Email, lgn.Password, lgn.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken))

	return c.JSON(http.StatusOK, &session{
		Token:        jwt.Signed,
		ExpiresAt:    jwt.ExpiresAt,
		RefreshToken: rfrToken.ID,
	})
}

// Logout logouts user
// @Summary     Logout user
// @Description Remove any user-related session data, refresh token is read from payload or cookie
// @Tags        auth
// @Accept      json
// @Param       logout body	    logout false "Refresh token id"
// @Success     200    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/auth/logout [post]
func (h *AuthHTTPHandler) Logout(c echo.Context) error {
	var lgt logout
	if err := c.Bind(&lgt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if lgt.RefreshToken == "" {
		lgt.RefreshToken = h.cookieToken(c)
	}

	if err := c.Validate(&lgt); err != nil {
		return err
	}

	if err := h.authSvc.Logout(c.Request().Context(), lgt.RefreshToken); err != nil {
		return err
	}

	c.SetCookie(h.expiredCookie())
	return c.NoContent(http.StatusOK)
}

// Refresh refreshes user session
// @Summary     Refresh auth
// @Description Sign new auth and refresh token, refresh token is read from payload or cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       refresh body	 refresh true "Fingerprint and refresh token id"
// @Success     200     {object} session
// @Failure     400     {object} echo.HTTPError
// @Failure     401     {object} echo.HTTPError
// @Failure     500     {object} echo.HTTPError
// @Router      /api/auth/refresh [post]
func (h *AuthHTTPHandler) Refresh(c echo.Context) error {
	var r refresh
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if r.RefreshToken == "" {
		r.RefreshToken = h.cookieToken(c)
	}

	if err := c.Validate(&r); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.Refresh(c.Request().Context(), r.RefreshToken, r.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken))

	return c.JSON(http.StatusOK, &session{
		Token:        jwt.Signed,
		ExpiresAt:    jwt.ExpiresAt,
		RefreshToken: rfrToken.ID,
	})
}

func (h *AuthHTTPHandler) cookieToken(c echo.Context) string {
	if h.authCfg.RefreshTokenCookie == "" {
		return ""
	}

	tknCookie, err := c.Cookie(h.authCfg.RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return tknCookie.Value
}

func (h *AuthHTTPHandler) refreshTokenCookie(rfrToken *model.RefreshToken) *http.Cookie {
	return &http.Cookie{
		Name:     h.authCfg.RefreshTokenCookie,
		Value:    rfrToken.ID,
		Path:     "/api/auth",
		MaxAge:   rfrToken.ExpiresIn,
		HttpOnly: true,
		Secure:   h.authCfg.HTTPS,
	}
}

func (h *AuthHTTPHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.authCfg.RefreshTokenCookie,
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authCfg.HTTPS,
	}
}
