package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialnet/media"
	"socialnet/middleware"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/repository"
)

type UserHandler struct {
	users repository.UserRepository
	media media.Store
}

func NewUserHandler(users repository.UserRepository, mediaStore media.Store) *UserHandler {
	return &UserHandler{users: users, media: mediaStore}
}

// UpdateDetails patches fullName and/or email; at least one is required.
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if input.FullName == nil && input.Email == nil {
		respondError(c, apierror.InvalidOperation("at least one of fullName or email is required"))
		return
	}
	if input.FullName != nil && *input.FullName == "" {
		respondError(c, apierror.InvalidOperation("fullName cannot be empty"))
		return
	}
	if input.Email != nil && *input.Email == "" {
		respondError(c, apierror.InvalidOperation("email cannot be empty"))
		return
	}

	updated, err := h.users.UpdateDetails(c.Request.Context(), user.ID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "account details updated successfully")
}

// UpdateAvatar replaces the avatar image and releases the previous asset.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", func(c *gin.Context, user *models.User, url string) (*models.User, string, error) {
		old := user.Avatar
		updated, err := h.users.UpdateAvatar(c.Request.Context(), user.ID, url)
		return updated, old, err
	})
}

// UpdateCoverImage replaces the cover image and releases the previous asset.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", func(c *gin.Context, user *models.User, url string) (*models.User, string, error) {
		var old string
		if user.CoverImage != nil {
			old = *user.CoverImage
		}
		updated, err := h.users.UpdateCoverImage(c.Request.Context(), user.ID, url)
		return updated, old, err
	})
}

func (h *UserHandler) updateImage(c *gin.Context, field string, apply func(*gin.Context, *models.User, string) (*models.User, string, error)) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		respondBadRequest(c, field+" image is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, apierror.UploadFailed("failed to read uploaded file", err))
		return
	}
	defer src.Close()

	asset, err := h.media.Upload(c.Request.Context(), file.Filename, src)
	if err != nil {
		respondError(c, apierror.UploadFailed("failed to upload image", err))
		return
	}

	updated, oldURL, err := apply(c, user, asset.URL)
	if err != nil {
		// The new asset is unreferenced now; drop it.
		if delErr := h.media.Delete(c.Request.Context(), asset.ID); delErr != nil {
			log.Printf("failed to release media asset %s: %v", asset.ID, delErr)
		}
		respondError(c, err)
		return
	}

	h.releaseByURL(c, oldURL)
	respond(c, http.StatusOK, updated, field+" updated successfully")
}

// releaseByURL deletes the asset a minted URL points at, best effort.
// Externally hosted URLs (no /images/ segment) are left alone.
func (h *UserHandler) releaseByURL(c *gin.Context, url string) {
	id := assetIDFromURL(url)
	if id == "" {
		return
	}
	if err := h.media.Delete(c.Request.Context(), id); err != nil {
		log.Printf("failed to release media asset %s: %v", id, err)
	}
}

func assetIDFromURL(url string) string {
	const marker = "/images/"
	idx := strings.LastIndex(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
