package handler

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"socialnet/media"
	"socialnet/middleware"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/pkg/jwt"
	"socialnet/repository"
)

var validate = validator.New()

type AuthHandler struct {
	users         repository.UserRepository
	profiles      repository.ProfileRepository
	media         media.Store
	jwtManager    *jwt.Manager
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthHandler(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	mediaStore media.Store,
	jwtManager *jwt.Manager,
	accessExpiry, refreshExpiry time.Duration,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		profiles:      profiles,
		media:         mediaStore,
		jwtManager:    jwtManager,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

type registerRequest struct {
	Username string `form:"username" validate:"required,min=3,max=30"`
	Email    string `form:"email" validate:"required,email"`
	FullName string `form:"fullName" validate:"required"`
	Password string `form:"password" validate:"required,min=8"`
	Bio      string `form:"bio"`
	DOB      string `form:"dob" validate:"required,datetime=2006-01-02"`
	Location string `form:"location"`
}

type authTokens struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int            `json:"expiresIn"`
	User         models.Account `json:"user"`
}

// Register creates the user, its profile row, and uploads the avatar (and
// optional cover image) through the media channel. The profile is created
// here because the aggregators treat a missing profile as NotFound.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(c, validationMessages(err))
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		respondBadRequest(c, "dob must be formatted as YYYY-MM-DD")
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		respondBadRequest(c, "avatar image is required")
		return
	}

	ctx := c.Request.Context()

	if _, err := h.users.GetByEmail(ctx, req.Email); err == nil {
		respondError(c, apierror.Conflict("email already in use"))
		return
	}
	if _, err := h.users.GetByUsername(ctx, req.Username); err == nil {
		respondError(c, apierror.Conflict("username already taken"))
		return
	}

	avatar, err := h.uploadFormFile(c, avatarFile)
	if err != nil {
		respondError(c, err)
		return
	}

	var coverURL *string
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		cover, err := h.uploadFormFile(c, coverFile)
		if err != nil {
			respondError(c, err)
			return
		}
		coverURL = &cover.URL
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apierror.StoreUnavailable("failed to hash password", err))
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.users.Create(ctx, user); err != nil {
		respondError(c, err)
		return
	}

	location := req.Location
	if location == "" {
		location = "Earth"
	}
	profile := &models.Profile{
		ID:        uuid.New(),
		Owner:     user.ID,
		FirstName: "First",
		LastName:  "Name",
		Bio:       req.Bio,
		DOB:       dob,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.profiles.Create(ctx, profile); err != nil {
		respondError(c, err)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, tokens, "registration successful")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(c, validationMessages(err))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if apierror.IsNotFound(err) {
			respondError(c, apierror.Unauthorized("invalid email or password"))
			return
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, apierror.Unauthorized("invalid email or password"))
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tokens, "login successful")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.users.SetRefreshToken(c.Request.Context(), user.ID, nil); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	respond(c, http.StatusOK, nil, "logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshToken rotates the token pair. The presented token must both verify
// and match the one stored for the user, so a stolen-then-rotated token
// cannot be replayed.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	claims, err := h.jwtManager.Verify(req.RefreshToken)
	if err != nil {
		respondError(c, apierror.Unauthorized("invalid or expired refresh token"))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondError(c, apierror.Unauthorized("invalid refresh token"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, apierror.Unauthorized("invalid refresh token"))
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != req.RefreshToken {
		respondError(c, apierror.Unauthorized("refresh token has been revoked"))
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tokens, "token refreshed")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(c, validationMessages(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		respondError(c, apierror.Unauthorized("old password is incorrect"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apierror.StoreUnavailable("failed to hash password", err))
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, string(hashed)); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}
	respond(c, http.StatusOK, user, "current user fetched successfully")
}

// --- helpers ---

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (*authTokens, error) {
	accessToken, err := h.jwtManager.GenerateAccessToken(user.ID.String(), user.Username, user.Email, h.accessExpiry)
	if err != nil {
		return nil, apierror.StoreUnavailable("failed to generate access token", err)
	}

	refreshToken, err := h.jwtManager.GenerateRefreshToken(user.ID.String(), h.refreshExpiry)
	if err != nil {
		return nil, apierror.StoreUnavailable("failed to generate refresh token", err)
	}

	if err := h.users.SetRefreshToken(c.Request.Context(), user.ID, &refreshToken); err != nil {
		return nil, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", accessToken, int(h.accessExpiry.Seconds()), "/", "", false, true)

	return &authTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.accessExpiry.Seconds()),
		User:         user.Account(),
	}, nil
}

func (h *AuthHandler) uploadFormFile(c *gin.Context, file *multipart.FileHeader) (*media.Asset, error) {
	src, err := file.Open()
	if err != nil {
		return nil, apierror.UploadFailed("failed to read uploaded file", err)
	}
	defer src.Close()

	asset, err := h.media.Upload(c.Request.Context(), file.Filename, src)
	if err != nil {
		return nil, apierror.UploadFailed("failed to upload image", err)
	}
	return asset, nil
}

func validationMessages(err error) []string {
	var messages []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range verrs {
			messages = append(messages, fieldErr.Field()+" failed on "+fieldErr.Tag())
		}
		return messages
	}
	return []string{err.Error()}
}
