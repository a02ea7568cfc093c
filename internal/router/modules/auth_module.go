package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiprasetyo/evently-api/internal/container"
	handlers "github.com/adiprasetyo/evently-api/internal/interface/http"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
)

// AuthModule wires registration, login (credentials and Google), token
// refresh and logout into routes.
// Public: POST /api/register, POST /api/login, GET /api/auth/google/login,
// GET /api/auth/google/callback, POST /api/refresh
// Protected: POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/auth/google/login", loginLimiter, m.Handler.GoogleLogin)
	rg.GET("/auth/google/callback", loginLimiter, m.Handler.GoogleCallback)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetSessions()))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
