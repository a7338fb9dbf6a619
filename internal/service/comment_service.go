package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type CommentService interface {
	CreateComment(userID string, req CreateCommentRequest) (*model.Comment, error)
	GetCommentByID(commentID string) (*model.Comment, error)
	GetCommentsByTarget(targetType, targetID string, limit, offset int) ([]*model.Comment, int64, error)
	UpdateComment(userID, commentID string, req UpdateCommentRequest) (*model.Comment, error)
	DeleteComment(userID, commentID string) error
	GetCommentCount(targetType, targetID string) (int64, error)
}

type commentService struct {
	commentRepo       repository.CommentRepository
	postRepo          repository.PostRepository
	userRepo          repository.UserRepository
	moderationService ModerationService
}

type CreateCommentRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   string `json:"target_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	moderationService ModerationService,
) CommentService {
	return &commentService{
		commentRepo:       commentRepo,
		postRepo:          postRepo,
		userRepo:          userRepo,
		moderationService: moderationService,
	}
}

// CreateComment creates a comment on a post or another comment. The body
// runs through moderation first.
func (s *commentService) CreateComment(userID string, req CreateCommentRequest) (*model.Comment, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	// Validate the target exists
	switch req.TargetType {
	case model.TargetTypePost:
		if _, err := s.postRepo.FindByID(req.TargetID); err != nil {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, req.TargetID)
		}
	case model.TargetTypeComment:
		if _, err := s.commentRepo.FindByID(req.TargetID); err != nil {
			return nil, fmt.Errorf("%w: comment %s", ErrNotFound, req.TargetID)
		}
	default:
		return nil, fmt.Errorf("invalid target type %q", req.TargetType)
	}

	if s.moderationService != nil {
		if err := s.moderationService.CheckText(userID, req.Body); err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		UserID:     userID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Body:       req.Body,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID)
}

func (s *commentService) GetCommentByID(commentID string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) GetCommentsByTarget(targetType, targetID string, limit, offset int) ([]*model.Comment, int64, error) {
	return s.commentRepo.FindByTarget(targetType, targetID, limit, offset)
}

// UpdateComment updates a comment's body. Only the author may update; the
// author and target cannot change.
func (s *commentService) UpdateComment(userID, commentID string, req UpdateCommentRequest) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if err != nil {
		return nil, err
	}

	if comment.UserID != userID {
		return nil, fmt.Errorf("%w: user %s is not the author of comment %s", ErrNotAuthorized, userID, commentID)
	}

	if s.moderationService != nil {
		if err := s.moderationService.CheckText(userID, req.Body); err != nil {
			return nil, err
		}
	}

	comment.Body = req.Body
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment deletes a comment. Only the author may delete.
func (s *commentService) DeleteComment(userID, commentID string) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		return fmt.Errorf("%w: user %s is not the author of comment %s", ErrNotAuthorized, userID, commentID)
	}

	return s.commentRepo.Delete(commentID)
}

func (s *commentService) GetCommentCount(targetType, targetID string) (int64, error) {
	return s.commentRepo.CountByTarget(targetType, targetID)
}
