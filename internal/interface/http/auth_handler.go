package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
	"github.com/adiprasetyo/evently-api/internal/oauth"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
	"github.com/adiprasetyo/evently-api/pkg/response"
	"github.com/adiprasetyo/evently-api/pkg/validation"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	Svc         *application.AuthService
	OAuth       oauth.Provider
	Logger      *logrus.Logger
	Cookies     *helpers.CookieManager
	FrontendURL string
}

func NewAuthHandler(svc *application.AuthService, provider oauth.Provider, logger *logrus.Logger, cookies *helpers.CookieManager, frontendURL string) *AuthHandler {
	return &AuthHandler{Svc: svc, OAuth: provider, Logger: logger, Cookies: cookies, FrontendURL: frontendURL}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func genState(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Register handles POST /api/register. The body is a multipart form with
// name, email, password and an optional profile image.
func (h *AuthHandler) Register(c *gin.Context) {
	in := application.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable image", nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Image = f
		in.ImageFilename = fh.Filename
		in.ImageContentType = fh.Header.Get("Content-Type")
	}

	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error[any](c, http.StatusBadRequest, "all fields are required", verr.Fields)
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already in use", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}

	// No password hash in the response, ever.
	response.Success(c, http.StatusCreated, gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"image_url": u.ImageURL,
	}, "user registered", nil)
}

// Login handles POST /api/login with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusUnauthorized, "user not found", nil)
		case errors.Is(err, application.ErrWrongProvider):
			response.Error[any](c, http.StatusUnauthorized, "use google login", nil)
		case errors.Is(err, application.ErrInvalidPassword):
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// GoogleLogin handles GET /api/auth/google/login and redirects the browser to
// the Google consent page.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state, err := genState(24)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "state generation failed", nil)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", h.Cookies.Domain, h.Cookies.Secure, true)
	c.Redirect(http.StatusFound, h.OAuth.LoginURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback. The code is exchanged
// for a verified profile, the account auto-provisioned if new, and the
// browser redirected back to the frontend with session cookies set.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != expected {
		response.Error[any](c, http.StatusBadRequest, "invalid oauth state", nil)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", h.Cookies.Domain, h.Cookies.Secure, true)

	code := c.Query("code")
	if code == "" {
		response.Error[any](c, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	profile, err := h.OAuth.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.Logger.WithError(err).Warn("google code exchange failed")
		response.Error[any](c, http.StatusBadGateway, "provider error", nil)
		return
	}

	_, pair, err := h.Svc.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		h.Logger.WithError(err).Error("google login failed")
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	c.Redirect(http.StatusFound, h.FrontendURL)
}

// Refresh handles POST /api/refresh, rotating the cookie pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if p := middleware.PrincipalFrom(c); p != nil {
		h.Svc.Logout(c.Request.Context(), p.ID)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}
