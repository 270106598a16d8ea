package handler

import (
	"github.com/gin-gonic/gin"

	"socialnet/middleware"
)

// Handlers bundles everything RegisterRoutes needs to wire the API surface.
type Handlers struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Profile *ProfileHandler
	Posts   *PostHandler
	Follow  *FollowHandler
	Likes   *LikeHandler
	Media   *MediaHandler
}

// RegisterRoutes mounts the REST surface. Read endpoints that are viewer-
// aware use optional auth so anonymous requests still work; every write
// requires a caller.
func RegisterRoutes(router *gin.Engine, auth *middleware.Auth, h Handlers) {
	router.GET("/images/:id", h.Media.GetImage)

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", h.Auth.Register)
	users.POST("/login", h.Auth.Login)
	users.POST("/refresh-token", h.Auth.RefreshToken)
	users.POST("/logout", auth.Required(), h.Auth.Logout)
	users.POST("/change-password", auth.Required(), h.Auth.ChangePassword)
	users.GET("/current-user", auth.Required(), h.Auth.CurrentUser)
	users.PATCH("/update-details", auth.Required(), h.Users.UpdateDetails)
	users.PATCH("/update-avatar", auth.Required(), h.Users.UpdateAvatar)
	users.PATCH("/update-cover-image", auth.Required(), h.Users.UpdateCoverImage)

	profile := v1.Group("/profile")
	profile.GET("/me", auth.Required(), h.Profile.GetMyProfile)
	profile.GET("/u/:username", auth.Optional(), h.Profile.GetProfileByUsername)
	profile.PATCH("", auth.Required(), h.Profile.UpdateProfile)

	posts := v1.Group("/posts")
	posts.POST("", auth.Required(), h.Posts.CreatePost)
	posts.GET("", auth.Optional(), h.Posts.GetAllPosts)
	posts.GET("/my", auth.Required(), h.Posts.GetMyPosts)
	posts.GET("/u/:username", auth.Optional(), h.Posts.GetPostsByUsername)
	posts.GET("/:id", auth.Optional(), h.Posts.GetPostByID)
	posts.PATCH("/:id", auth.Required(), h.Posts.UpdatePost)
	posts.DELETE("/:id", auth.Required(), h.Posts.DeletePost)

	v1.POST("/follow/:userId", auth.Required(), h.Follow.ToggleFollow)
	v1.POST("/likes/:postId", auth.Required(), h.Likes.ToggleLike)
}
