package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
	"github.com/adiprasetyo/evently-api/pkg/response"
	"github.com/adiprasetyo/evently-api/pkg/validation"
)

type AddressHandler struct {
	Svc    *application.AddressService
	Logger *logrus.Logger
}

func NewAddressHandler(svc *application.AddressService, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{Svc: svc, Logger: logger}
}

// addressRequest is the full record; partial updates are not supported, so
// create and update share the shape.
type addressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
}

func (r addressRequest) input() application.AddressInput {
	return application.AddressInput{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		Country: r.Country,
		ZipCode: r.ZipCode,
	}
}

func addressView(a *entity.Address) gin.H {
	return gin.H{
		"id":         a.ID,
		"street":     a.Street,
		"city":       a.City,
		"state":      a.State,
		"country":    a.Country,
		"zipCode":    a.ZipCode,
		"userId":     a.UserID,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
}

func (h *AddressHandler) fail(c *gin.Context, err error, action string) {
	var verr *application.ValidationError
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "all fields are required", verr.Fields)
	case errors.Is(err, application.ErrAddressNotFound):
		response.Error[any](c, http.StatusNotFound, "address not found or unauthorized", nil)
	default:
		h.Logger.WithError(err).Error(action + " failed")
		response.Error[any](c, http.StatusInternalServerError, action+" failed", nil)
	}
}

// Create handles POST /api/addresses.
func (h *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "all fields are required", validation.ToDetails(err))
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), req.input())
	if err != nil {
		h.fail(c, err, "create address")
		return
	}
	response.Success(c, http.StatusCreated, addressView(a), "address created", nil)
}

// List handles GET /api/addresses.
func (h *AddressHandler) List(c *gin.Context) {
	addrs, err := h.Svc.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		h.fail(c, err, "list addresses")
		return
	}
	out := make([]gin.H, 0, len(addrs))
	for i := range addrs {
		out = append(out, addressView(&addrs[i]))
	}
	response.Success(c, http.StatusOK, out, "addresses", map[string]any{"count": len(out)})
}

// Search handles GET /api/addresses/search?q=...&size=...
func (h *AddressHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), middleware.PrincipalFrom(c), q, size)
	if err != nil {
		h.fail(c, err, "search addresses")
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// updateAddressRequest carries no binding rules: the ownership check must run
// before field validation, so the service validates after the guard passes.
type updateAddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// Update handles PUT /api/addresses/:id with a full field replace.
func (h *AddressHandler) Update(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.AddressInput{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		ZipCode: req.ZipCode,
	}
	a, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err, "update address")
		return
	}
	response.Success(c, http.StatusOK, addressView(a), "address updated", nil)
}

// Delete handles DELETE /api/addresses/:id. Deletion is permanent.
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		h.fail(c, err, "delete address")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "address deleted", nil)
}
