package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/pkg/apierror"
)

// APIResponse is the success envelope every endpoint renders.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// APIErrorResponse is the error envelope.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, APIResponse{StatusCode: status, Data: data, Message: message})
}

// respondError maps a typed error to its stable status class. Anything that
// is not an apierror surfaces as a store failure; the cause goes to the log,
// not the client.
func respondError(c *gin.Context, err error) {
	kind := apierror.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if kind == apierror.KindStoreUnavailable {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "service temporarily unavailable"
	}

	c.AbortWithStatusJSON(status, APIErrorResponse{StatusCode: status, Message: message})
}

func respondValidationError(c *gin.Context, errs []string) {
	status := http.StatusUnprocessableEntity
	c.AbortWithStatusJSON(status, APIErrorResponse{
		StatusCode: status,
		Message:    "validation failed",
		Errors:     errs,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, APIErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	})
}

func statusForKind(kind apierror.Kind) int {
	switch kind {
	case apierror.KindNotFound:
		return http.StatusNotFound
	case apierror.KindInvalidOperation:
		return http.StatusUnprocessableEntity
	case apierror.KindUnauthorized:
		return http.StatusUnauthorized
	case apierror.KindConflict:
		return http.StatusConflict
	case apierror.KindUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}
