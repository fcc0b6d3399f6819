package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/internal/application"
	"github.com/mindgrid-app/mindgrid-api/internal/interface/middleware"
	"github.com/mindgrid-app/mindgrid-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":                   u.ID,
		"username":             u.Username,
		"email":                u.Email,
		"name":                 u.Name,
		"surname":              u.Surname,
		"image":                u.Image,
		"company":              u.Company,
		"role":                 u.Role,
		"interests":            u.Interests,
		"experience":           u.Experience,
		"bio":                  u.Bio,
		"timezone":             u.Timezone,
		"completed_onboarding": u.CompletedOnboarding,
		"created_at":           u.CreatedAt,
		"updated_at":           u.UpdatedAt,
	}, "profile")
}

// UploadAvatar accepts a multipart image and stores it in GCS.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := file.Header.Get("Content-Type")
	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, file.Filename, contentType)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("avatar upload failed")
		response.Error[any](c, http.StatusBadGateway, "avatar upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image": url}, "avatar updated")
}
