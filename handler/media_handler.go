package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"socialnet/media"
	"socialnet/pkg/apierror"
)

type MediaHandler struct {
	media media.Store
}

func NewMediaHandler(mediaStore media.Store) *MediaHandler {
	return &MediaHandler{media: mediaStore}
}

// GetImage streams a stored asset to the client.
func (h *MediaHandler) GetImage(c *gin.Context) {
	stream, err := h.media.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, apierror.NotFound("image does not exist"))
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/png")
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers are already out; nothing more useful to send.
		c.Abort()
	}
}
