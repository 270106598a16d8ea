package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	models "socialnet/model"
	"socialnet/pkg/jwt"
	"socialnet/repository"
)

// UserKey is the gin context key holding the authenticated *models.User.
const UserKey = "user"

// Auth verifies access tokens and attaches the caller to the request
// context.
type Auth struct {
	jwtManager *jwt.Manager
	users      repository.UserRepository
}

func NewAuth(jwtManager *jwt.Manager, users repository.UserRepository) *Auth {
	return &Auth{jwtManager: jwtManager, users: users}
}

// Required rejects requests without a valid token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}
		a.attachUser(c, token)
	}
}

// Optional resolves the caller when a token is present but lets anonymous
// requests through; a token that is present but invalid is still rejected.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		a.attachUser(c, token)
	}
}

func (a *Auth) attachUser(c *gin.Context, token string) {
	claims, err := a.jwtManager.Verify(token)
	if err != nil {
		abortUnauthorized(c, "invalid or expired token")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		abortUnauthorized(c, "invalid token subject")
		return
	}

	user, err := a.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortUnauthorized(c, "user no longer exists")
		return
	}

	c.Set(UserKey, user)
	c.Next()
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return token
		}
	}
	if token, err := c.Cookie("token"); err == nil {
		return token
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"statusCode": http.StatusUnauthorized,
		"message":    message,
	})
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// ViewerID returns the authenticated user's ID or nil for anonymous
// requests.
func ViewerID(c *gin.Context) *uuid.UUID {
	user, ok := CurrentUser(c)
	if !ok {
		return nil
	}
	id := user.ID
	return &id
}
