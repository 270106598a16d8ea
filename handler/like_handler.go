package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialnet/middleware"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// ToggleLike likes the post if the caller has not liked it yet and unlikes
// it otherwise.
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	postID, err := uuid.Parse(c.Param("postId"))
	if err != nil {
		respondBadRequest(c, "invalid post id")
		return
	}

	result, err := h.likes.Toggle(c.Request.Context(), user.ID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "like removed successfully"
	if result.Liked {
		message = "liked successfully"
	}
	respond(c, http.StatusOK, result, message)
}
