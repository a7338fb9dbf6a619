package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type PostService interface {
	CreatePost(userID string, req CreatePostRequest) (*model.Post, error)
	GetPostByID(postID string) (*model.Post, error)
	GetPostsByUserID(userID string, limit, offset int) ([]*model.Post, int64, error)
	UpdatePost(userID, postID string, req UpdatePostRequest) (*model.Post, error)
	DeletePost(userID, postID string) error
}

type postService struct {
	postRepo          repository.PostRepository
	userRepo          repository.UserRepository
	moderationService ModerationService
}

type CreatePostRequest struct {
	Content       string   `json:"content" binding:"required"`
	TaggedUserIDs []string `json:"tagged_user_ids,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	moderationService ModerationService,
) PostService {
	return &postService{
		postRepo:          postRepo,
		userRepo:          userRepo,
		moderationService: moderationService,
	}
}

// CreatePost creates a post with optional tags. The body runs through
// moderation first.
func (s *postService) CreatePost(userID string, req CreatePostRequest) (*model.Post, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if s.moderationService != nil {
		if err := s.moderationService.CheckText(userID, req.Content); err != nil {
			return nil, err
		}
	}

	// Validate tagged users exist; tags on unknown identities are dropped
	tags := make([]model.PostTag, 0, len(req.TaggedUserIDs))
	for _, taggedID := range req.TaggedUserIDs {
		if taggedID == userID {
			continue
		}
		if _, err := s.userRepo.FindByID(taggedID); err != nil {
			continue
		}
		tags = append(tags, model.PostTag{TaggedUserID: taggedID})
	}

	post := &model.Post{
		UserID:  userID,
		Content: req.Content,
		Tags:    tags,
	}
	if err := post.SetImageURLs(req.ImageURLs); err != nil {
		return nil, fmt.Errorf("failed to encode image urls: %w", err)
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return s.postRepo.FindByID(post.ID)
}

func (s *postService) GetPostByID(postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(postID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPostsByUserID(userID string, limit, offset int) ([]*model.Post, int64, error) {
	return s.postRepo.FindByUserID(userID, limit, offset)
}

// UpdatePost updates a post's content. Only the author may update; author
// and tags cannot change.
func (s *postService) UpdatePost(userID, postID string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(postID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, fmt.Errorf("%w: user %s is not the author of post %s", ErrNotAuthorized, userID, postID)
	}

	if s.moderationService != nil {
		if err := s.moderationService.CheckText(userID, req.Content); err != nil {
			return nil, err
		}
	}

	post.Content = req.Content
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// DeletePost deletes a post. Only the author may delete.
func (s *postService) DeletePost(userID, postID string) error {
	post, err := s.postRepo.FindByID(postID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return fmt.Errorf("%w: user %s is not the author of post %s", ErrNotAuthorized, userID, postID)
	}

	return s.postRepo.Delete(postID)
}
