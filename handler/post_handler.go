package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialnet/middleware"
	models "socialnet/model"
	"socialnet/pkg/apierror"
	"socialnet/service"
)

type PostHandler struct {
	posts *service.PostService
	feed  *service.FeedService
}

func NewPostHandler(posts *service.PostService, feed *service.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// CreatePost accepts a multipart form: title, description, repeated tags
// fields, and 1–5 files under "images".
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	uploads, closers, err := openUploads(form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeAll(closers)

	post, err := h.posts.Create(
		c.Request.Context(),
		user.ID,
		c.PostForm("title"),
		c.PostForm("description"),
		c.PostFormArray("tags"),
		uploads,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, post, "post created successfully")
}

// UpdatePost patches a post. Metadata fields present in the form are
// patched; files under "images" fully replace the image set. At least one
// of the two must be supplied.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid post id")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	input := models.UpdatePostInput{}
	if title, ok := c.GetPostForm("title"); ok {
		input.Title = &title
	}
	if description, ok := c.GetPostForm("description"); ok {
		input.Description = &description
	}
	if tags, ok := c.GetPostFormArray("tags"); ok {
		input.Tags = tags
	}

	files := form.File["images"]
	if input.Empty() && len(files) == 0 {
		respondError(c, apierror.InvalidOperation("nothing to update"))
		return
	}

	ctx := c.Request.Context()
	var post *models.Post

	if !input.Empty() {
		post, err = h.posts.UpdateMeta(ctx, user.ID, postID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if len(files) > 0 {
		uploads, closers, err := openUploads(files)
		if err != nil {
			respondError(c, err)
			return
		}
		defer closeAll(closers)

		post, err = h.posts.ReplaceImages(ctx, user.ID, postID, uploads)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	respond(c, http.StatusOK, post, "post updated successfully")
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid post id")
		return
	}

	if err := h.posts.Delete(c.Request.Context(), user.ID, postID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "post deleted successfully")
}

// GetAllPosts lists posts across all owners with optional title filter and
// sort. Anonymous viewers are allowed; is_liked is then always false.
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	query := service.FeedQuery{
		TitleContains: c.Query("title"),
		Page:          intQuery(c, "page", 1),
		PageSize:      intQuery(c, "limit", service.DefaultPageSize),
	}

	if field := c.Query("sortBy"); field != "" {
		direction := models.SortAsc
		if c.Query("order") == "desc" {
			direction = models.SortDesc
		}
		query.Sort = &models.PostSort{Field: field, Direction: direction}
	}

	feed, err := h.feed.GetFeed(c.Request.Context(), middleware.ViewerID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, feed, "posts fetched successfully")
}

func (h *PostHandler) GetMyPosts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apierror.Unauthorized("authentication required"))
		return
	}

	ownerID := user.ID
	query := service.FeedQuery{
		OwnerID:  &ownerID,
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "limit", service.DefaultPageSize),
	}

	feed, err := h.feed.GetFeed(c.Request.Context(), &ownerID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, feed, "posts fetched successfully")
}

func (h *PostHandler) GetPostsByUsername(c *gin.Context) {
	query := service.FeedQuery{
		Username: c.Param("username"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "limit", service.DefaultPageSize),
	}

	feed, err := h.feed.GetFeed(c.Request.Context(), middleware.ViewerID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, feed, "posts fetched successfully")
}

func (h *PostHandler) GetPostByID(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid post id")
		return
	}

	post, err := h.feed.GetPost(c.Request.Context(), middleware.ViewerID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, post, "post fetched successfully")
}

// --- helpers ---

func openUploads(files []*multipart.FileHeader) ([]service.Upload, []multipart.File, error) {
	uploads := make([]service.Upload, 0, len(files))
	closers := make([]multipart.File, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, apierror.UploadFailed("failed to read uploaded file", err)
		}
		closers = append(closers, src)
		uploads = append(uploads, service.Upload{Filename: file.Filename, Contents: src})
	}
	return uploads, closers, nil
}

func closeAll(closers []multipart.File) {
	for _, c := range closers {
		c.Close()
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
