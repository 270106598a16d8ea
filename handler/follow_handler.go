package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialnet/middleware"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

type FollowHandler struct {
	follows *service.FollowService
}

func NewFollowHandler(follows *service.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// ToggleFollow follows the target user if not yet followed and unfollows
// otherwise.
func (h *FollowHandler) ToggleFollow(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		respondBadRequest(c, "invalid user id")
		return
	}

	result, err := h.follows.Toggle(c.Request.Context(), user.ID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "un-followed successfully"
	if result.Following {
		message = "followed successfully"
	}
	respond(c, http.StatusOK, result, message)
}
