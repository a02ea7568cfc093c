package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiprasetyo/evently-api/internal/container"
	handlers "github.com/adiprasetyo/evently-api/internal/interface/http"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
)

// AddressModule wires the owner-scoped address book.
// Protected: GET/POST /api/addresses, GET /api/addresses/search,
// PUT/DELETE /api/addresses/:id
type AddressModule struct {
	Handler *handlers.AddressHandler
}

func NewAddressModule(h *handlers.AddressHandler) *AddressModule {
	return &AddressModule{Handler: h}
}

func (m *AddressModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetSessions()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/addresses", m.Handler.List)
		auth.GET("/addresses/search", m.Handler.Search)
		auth.POST("/addresses", m.Handler.Create)
		auth.PUT("/addresses/:id", m.Handler.Update)
		auth.DELETE("/addresses/:id", m.Handler.Delete)
	}
}
