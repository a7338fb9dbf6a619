package service

import (
	"fmt"
	"sort"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// RecapWindow is the length of the default recap window: the preceding 30
// days, computed at generation time.
const RecapWindow = 30 * 24 * time.Hour

// rankSize caps the most/least interacted rankings.
const rankSize = 3

type RecapService interface {
	GenerateRecap(userID string, windowStart, windowEnd time.Time) (*model.Recap, error)
	GenerateMonthlyRecap(userID string) (*model.Recap, error)
	GetRecaps(userID string, limit, offset int) ([]*model.Recap, int64, error)
	GetLatestRecap(userID string) (*model.Recap, error)
}

type recapService struct {
	recapRepo      repository.RecapRepository
	friendshipRepo repository.FriendshipRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	reactionRepo   repository.ReactionRepository
	notifService   NotificationService
}

func NewRecapService(
	recapRepo repository.RecapRepository,
	friendshipRepo repository.FriendshipRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	notifService NotificationService,
) RecapService {
	return &recapService{
		recapRepo:      recapRepo,
		friendshipRepo: friendshipRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		reactionRepo:   reactionRepo,
		notifService:   notifService,
	}
}

// GenerateRecap aggregates the user's interactions with each current friend
// over the half-open window [windowStart, windowEnd) and stores the result
// as an immutable recap. The reads are side-effect free: running with an
// empty friend set or an empty window yields a valid zero recap, and any
// storage failure aborts before the recap row is written.
func (s *recapService) GenerateRecap(userID string, windowStart, windowEnd time.Time) (*model.Recap, error) {
	friendIDs, err := s.friendshipRepo.FindFriendIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch friends: %v", ErrDependency, err)
	}

	// Every current friend starts at zero so a friend with no interactions
	// still ranks in leastInteractedWith. The map never grows past the
	// friend set: tags and targets outside it are ignored.
	interactions := make(map[string]int, len(friendIDs))
	for _, id := range friendIDs {
		interactions[id] = 0
	}

	posts, err := s.postRepo.FindByAuthorInWindow(userID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch posts: %v", ErrDependency, err)
	}
	for _, post := range posts {
		for _, taggedID := range post.TaggedUserIDs() {
			if _, isFriend := interactions[taggedID]; isFriend {
				interactions[taggedID]++
			}
		}
	}

	comments, err := s.commentRepo.FindByAuthorInWindow(userID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch comments: %v", ErrDependency, err)
	}
	for _, comment := range comments {
		if err := s.creditTargetAuthor(interactions, comment.TargetType, comment.TargetID); err != nil {
			return nil, err
		}
	}

	reactions, err := s.reactionRepo.FindByAuthorInWindow(userID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch reactions: %v", ErrDependency, err)
	}
	for _, reaction := range reactions {
		if err := s.creditTargetAuthor(interactions, reaction.TargetType, reaction.TargetID); err != nil {
			return nil, err
		}
	}

	recap := &model.Recap{
		UserID:        userID,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		ContentCount:  len(posts),
		CommentCount:  len(comments),
		ReactionCount: len(reactions),
	}
	if err := recap.SetInteractions(interactions); err != nil {
		return nil, fmt.Errorf("failed to encode interactions: %w", err)
	}
	if err := recap.SetMostInteracted(rankMost(interactions)); err != nil {
		return nil, fmt.Errorf("failed to encode rankings: %w", err)
	}
	if err := recap.SetLeastInteracted(rankLeast(interactions)); err != nil {
		return nil, fmt.Errorf("failed to encode rankings: %w", err)
	}

	if err := s.recapRepo.Create(recap); err != nil {
		return nil, fmt.Errorf("failed to store recap: %w", err)
	}

	if s.notifService != nil {
		go func() {
			s.notifService.SendRecapReadyNotification(userID, recap.ID)
		}()
	}

	return recap, nil
}

// GenerateMonthlyRecap generates a recap over the preceding 30 days
func (s *recapService) GenerateMonthlyRecap(userID string) (*model.Recap, error) {
	windowEnd := time.Now()
	return s.GenerateRecap(userID, windowEnd.Add(-RecapWindow), windowEnd)
}

// GetRecaps returns the user's recap history, newest first
func (s *recapService) GetRecaps(userID string, limit, offset int) ([]*model.Recap, int64, error) {
	recaps, total, err := s.recapRepo.FindByUserID(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return recaps, total, nil
}

// GetLatestRecap returns the most recent recap for a user
func (s *recapService) GetLatestRecap(userID string) (*model.Recap, error) {
	recap, err := s.recapRepo.FindLatestByUserID(userID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: no recap for user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return recap, nil
}

// creditTargetAuthor is the single attribution rule shared by comments and
// reactions: resolve the author of the target artifact and, if that author
// is a current friend, credit them. The user never credits themselves since
// they are not in their own friend set, so self-comments are naturally
// excluded. A target that no longer exists contributes nothing.
func (s *recapService) creditTargetAuthor(interactions map[string]int, targetType, targetID string) error {
	authorID, err := s.resolveTargetAuthor(targetType, targetID)
	if repository.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: resolve %s %s: %v", ErrDependency, targetType, targetID, err)
	}

	if _, isFriend := interactions[authorID]; isFriend {
		interactions[authorID]++
	}
	return nil
}

func (s *recapService) resolveTargetAuthor(targetType, targetID string) (string, error) {
	switch targetType {
	case model.TargetTypePost:
		post, err := s.postRepo.FindByID(targetID)
		if err != nil {
			return "", err
		}
		return post.UserID, nil
	case model.TargetTypeComment:
		comment, err := s.commentRepo.FindByID(targetID)
		if err != nil {
			return "", err
		}
		return comment.UserID, nil
	default:
		return "", fmt.Errorf("unknown target type %q", targetType)
	}
}

// rankMost returns up to three friend IDs ordered by interaction count
// descending. Ties break on ascending ID so repeated runs over unchanged
// data produce identical rankings.
func rankMost(interactions map[string]int) []string {
	ids := sortedIDs(interactions)
	sort.SliceStable(ids, func(i, j int) bool {
		return interactions[ids[i]] > interactions[ids[j]]
	})
	return truncate(ids, rankSize)
}

// rankLeast returns up to three friend IDs ordered by interaction count
// ascending, same tie-break as rankMost. Zero-count friends rank ahead of
// friends with any interactions.
func rankLeast(interactions map[string]int) []string {
	ids := sortedIDs(interactions)
	sort.SliceStable(ids, func(i, j int) bool {
		return interactions[ids[i]] < interactions[ids[j]]
	})
	return truncate(ids, rankSize)
}

func sortedIDs(interactions map[string]int) []string {
	ids := make([]string, 0, len(interactions))
	for id := range interactions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func truncate(ids []string, n int) []string {
	if len(ids) > n {
		return ids[:n]
	}
	return ids
}
