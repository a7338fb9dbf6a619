package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type ReactionService interface {
	CreateReaction(userID string, req CreateReactionRequest) (*model.Reaction, error)
	GetReactionsByTarget(targetType, targetID string) ([]*model.Reaction, error)
	UpdateReaction(userID, reactionID string, req UpdateReactionRequest) (*model.Reaction, error)
	DeleteReaction(userID, reactionID string) error
	GetReactionCount(targetType, targetID string) (int64, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	userRepo     repository.UserRepository
}

type CreateReactionRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   string `json:"target_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type UpdateReactionRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		userRepo:     userRepo,
	}
}

// CreateReaction creates a reaction on a post or comment. One reaction per
// user per target; the content must be one of the allowed reactions.
func (s *reactionService) CreateReaction(userID string, req CreateReactionRequest) (*model.Reaction, error) {
	if !model.ValidReaction(req.Content) {
		return nil, fmt.Errorf("invalid reaction %q", req.Content)
	}

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

	if _, err := s.reactionRepo.FindByUserAndTarget(userID, req.TargetType, req.TargetID); err == nil {
		return nil, fmt.Errorf("user %s already reacted to %s %s", userID, req.TargetType, req.TargetID)
	}

	reaction := &model.Reaction{
		UserID:     userID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Content:    req.Content,
	}

	if err := s.reactionRepo.Create(reaction); err != nil {
		return nil, fmt.Errorf("failed to create reaction: %w", err)
	}

	return reaction, nil
}

func (s *reactionService) GetReactionsByTarget(targetType, targetID string) ([]*model.Reaction, error) {
	return s.reactionRepo.FindByTarget(targetType, targetID)
}

// UpdateReaction changes the reaction content. Only the author may update;
// the author and target cannot change.
func (s *reactionService) UpdateReaction(userID, reactionID string, req UpdateReactionRequest) (*model.Reaction, error) {
	if !model.ValidReaction(req.Content) {
		return nil, fmt.Errorf("invalid reaction %q", req.Content)
	}

	reaction, err := s.reactionRepo.FindByID(reactionID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: reaction %s", ErrNotFound, reactionID)
	}
	if err != nil {
		return nil, err
	}

	if reaction.UserID != userID {
		return nil, fmt.Errorf("%w: user %s is not the author of reaction %s", ErrNotAuthorized, userID, reactionID)
	}

	reaction.Content = req.Content
	if err := s.reactionRepo.Update(reaction); err != nil {
		return nil, fmt.Errorf("failed to update reaction: %w", err)
	}

	return reaction, nil
}

// DeleteReaction deletes a reaction. Only the author may delete.
func (s *reactionService) DeleteReaction(userID, reactionID string) error {
	reaction, err := s.reactionRepo.FindByID(reactionID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: reaction %s", ErrNotFound, reactionID)
	}
	if err != nil {
		return err
	}

	if reaction.UserID != userID {
		return fmt.Errorf("%w: user %s is not the author of reaction %s", ErrNotAuthorized, userID, reactionID)
	}

	return s.reactionRepo.Delete(reactionID)
}

func (s *reactionService) GetReactionCount(targetType, targetID string) (int64, error) {
	return s.reactionRepo.CountByTarget(targetType, targetID)
}
