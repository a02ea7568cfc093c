package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiprasetyo/evently-api/internal/container"
	handlers "github.com/adiprasetyo/evently-api/internal/interface/http"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
)

// UserModule wires the session-gated profile routes.
// Protected: GET /api/profile, PUT /api/profile, POST /api/profile/image
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetSessions()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/image", m.Handler.UploadImage)
	}
}
