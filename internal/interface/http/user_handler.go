package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/internal/domain/entity"
	"github.com/adiprasetyo/evently-api/internal/interface/middleware"
	"github.com/adiprasetyo/evently-api/pkg/response"
	"github.com/adiprasetyo/evently-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

func profileView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"image_url":  u.ImageURL,
		"provider":   u.Provider,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	u, err := h.Svc.GetProfile(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error[any](c, http.StatusInternalServerError, "profile lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), p, application.UpdateProfileInput{Name: req.Name, ImageURL: req.ImageURL})
	if err != nil {
		h.Logger.WithError(err).Error("update profile failed")
		response.Error[any](c, http.StatusBadRequest, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(u), "profile updated", nil)
}

// UploadImage handles POST /api/profile/image with a multipart "file" part.
func (h *UserHandler) UploadImage(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		response.Error[any](c, http.StatusBadRequest, "no file uploaded", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadProfileImage(c.Request.Context(), p, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("image upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "image uploaded", nil)
}
