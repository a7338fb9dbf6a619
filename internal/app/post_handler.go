package app

import (
	"encoding/json"
	"net/http"

	"socialnet/internal/service"
	"socialnet/internal/util"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService      service.PostService
	cloudinaryClient *util.CloudinaryClient
}

func NewPostHandler(postService service.PostService, cloudinaryClient *util.CloudinaryClient) *PostHandler {
	return &PostHandler{
		postService:      postService,
		cloudinaryClient: cloudinaryClient,
	}
}

// CreatePost creates a post with optional tagged friends
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.CreatePost(userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// CreatePostWithImages creates a post from a multipart form, uploading any
// attached images first
// POST /api/v1/posts/upload
func (h *PostHandler) CreatePostWithImages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.cloudinaryClient == nil {
		util.ErrorResponse(c, http.StatusServiceUnavailable, "Image uploads are not configured", nil)
		return
	}

	content := c.PostForm("content")
	if content == "" {
		util.BadRequest(c, "Content is required")
		return
	}

	var taggedUserIDs []string
	if tagged := c.PostForm("tagged_user_ids"); tagged != "" {
		if err := json.Unmarshal([]byte(tagged), &taggedUserIDs); err != nil {
			util.BadRequest(c, "tagged_user_ids must be a JSON array of user IDs")
			return
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	var imageURLs []string
	for _, fileHeader := range form.File["images"] {
		url, err := h.cloudinaryClient.UploadPostImage(fileHeader)
		if err != nil {
			util.ErrorResponse(c, http.StatusBadGateway, "Image upload failed: "+err.Error(), nil)
			return
		}
		imageURLs = append(imageURLs, url)
	}

	post, err := h.postService.CreatePost(userID, service.CreatePostRequest{
		Content:       content,
		TaggedUserIDs: taggedUserIDs,
		ImageURLs:     imageURLs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// GetPost returns a single post
// GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	post, err := h.postService.GetPostByID(postID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post retrieved successfully", gin.H{"post": post})
}

// GetPostsByUserID lists a user's posts
// GET /api/v1/posts/user/:userID
func (h *PostHandler) GetPostsByUserID(c *gin.Context) {
	targetUserID := c.Param("userID")
	if targetUserID == "" {
		util.BadRequest(c, "User ID is required")
		return
	}

	limit, offset := paginationParams(c, 20)

	posts, total, err := h.postService.GetPostsByUserID(targetUserID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Posts retrieved successfully", gin.H{
		"posts": posts,
		"total": total,
	})
}

// UpdatePost updates a post owned by the authenticated user
// PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.UpdatePost(userID, postID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// DeletePost deletes a post owned by the authenticated user
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID := c.Param("id")
	if postID == "" {
		util.BadRequest(c, "Post ID is required")
		return
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		respondServiceError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post deleted successfully", nil)
}
