package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/middleware"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMyProfile aggregates the authenticated caller's own profile.
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	viewerID := user.ID
	profile, err := h.profiles.GetProfile(c.Request.Context(), user.ID, &viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "user profile fetched successfully")
}

// GetProfileByUsername aggregates a profile for the (possibly anonymous)
// viewer. An unknown username is a 404, never an empty 200.
func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.profiles.GetProfileByUsername(c.Request.Context(), username, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "user profile fetched successfully")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), user.ID, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, profile, "user profile updated successfully")
}
