package service

import (
	"fmt"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

type FriendshipService interface {
	SendRequest(fromID, toID string) (*model.FriendRequest, error)
	RemoveRequest(fromID, toID string) error
	AcceptRequest(fromID, toID string) (*model.FriendRequest, error)
	RejectRequest(fromID, toID string) error
	RemoveFriend(userID, friendID string) error
	GetFriends(userID string) ([]model.User, error)
	GetFriendIDs(userID string) ([]string, error)
	GetRequests(userID string) ([]*model.FriendRequest, error)
	AreFriends(userID1, userID2 string) (bool, error)
}

type friendshipService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	notifService   NotificationService
}

func NewFriendshipService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifService NotificationService,
) FriendshipService {
	return &friendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		notifService:   notifService,
	}
}

// SendRequest creates a pending request from one user to another. All
// preconditions are checked before any write: the pair must not be the same
// user, must not already be friends, and must not have a pending request in
// either direction. A past rejected request does not block a new one.
func (s *friendshipService) SendRequest(fromID, toID string) (*model.FriendRequest, error) {
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	sender, err := s.userRepo.FindByID(fromID)
	if err != nil {
		return nil, fmt.Errorf("%w: sender %s", ErrNotFound, fromID)
	}
	if _, err := s.userRepo.FindByID(toID); err != nil {
		return nil, fmt.Errorf("%w: receiver %s", ErrNotFound, toID)
	}

	friends, err := s.friendshipRepo.AreFriends(fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	if friends {
		return nil, fmt.Errorf("%w: %s and %s", ErrAlreadyFriends, fromID, toID)
	}

	if _, err := s.friendshipRepo.FindPendingBetween(fromID, toID); err == nil {
		return nil, fmt.Errorf("%w: between %s and %s", ErrDuplicateRequest, fromID, toID)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	request := &model.FriendRequest{
		FromID: fromID,
		ToID:   toID,
		Status: model.FriendRequestStatusPending,
	}

	if err := s.friendshipRepo.CreateRequest(request); err != nil {
		// A concurrent request between the same pair can slip past the
		// pending check; the partial unique index catches it on insert.
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: between %s and %s", ErrDuplicateRequest, fromID, toID)
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	// Notify the receiver (async, non-blocking)
	if s.notifService != nil {
		go func() {
			s.notifService.SendFriendRequestNotification(toID, fromID, sender.Username, request.ID)
		}()
	}

	return request, nil
}

// RemoveRequest withdraws a pending request. Only a request authored by
// fromID can be withdrawn here; the handler passes the session user as
// fromID, so sender-only withdrawal is enforced at the boundary.
func (s *friendshipService) RemoveRequest(fromID, toID string) error {
	err := s.friendshipRepo.DeletePendingRequest(fromID, toID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: pending request from %s to %s", ErrNotFound, fromID, toID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove friend request: %w", err)
	}
	return nil
}

// AcceptRequest resolves a pending request into a friendship. The repository
// applies the status transition and edge creation atomically, so a request
// concurrently withdrawn or rejected surfaces here as not-found.
func (s *friendshipService) AcceptRequest(fromID, toID string) (*model.FriendRequest, error) {
	accepted, err := s.friendshipRepo.AcceptRequest(fromID, toID)
	if repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: pending request from %s to %s", ErrNotFound, fromID, toID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	if s.notifService != nil {
		go func() {
			receiver, err := s.userRepo.FindByID(toID)
			if err != nil {
				return
			}
			s.notifService.SendFriendAcceptedNotification(fromID, toID, receiver.Username, accepted.ID)
		}()
	}

	return accepted, nil
}

// RejectRequest resolves a pending request without creating a friendship.
// The pair may send a new request later.
func (s *friendshipService) RejectRequest(fromID, toID string) error {
	rejected, err := s.friendshipRepo.RejectRequest(fromID, toID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: pending request from %s to %s", ErrNotFound, fromID, toID)
	}
	if err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}

	if s.notifService != nil {
		go func() {
			receiver, err := s.userRepo.FindByID(toID)
			if err != nil {
				return
			}
			s.notifService.SendFriendRejectedNotification(fromID, toID, receiver.Username, rejected.ID)
		}()
	}

	return nil
}

// RemoveFriend drops the friendship between two users. The edge and the
// accepted request record disappear together, so removal is mutual and a
// fresh request can follow.
func (s *friendshipService) RemoveFriend(userID, friendID string) error {
	err := s.friendshipRepo.RemoveFriendship(userID, friendID)
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: %s and %s are not friends", ErrNotFound, userID, friendID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}

	if s.notifService != nil {
		go func() {
			remover, err := s.userRepo.FindByID(userID)
			if err != nil {
				return
			}
			s.notifService.SendFriendRemovedNotification(friendID, userID, remover.Username)
		}()
	}

	return nil
}

// GetFriends returns the users currently friends with userID
func (s *friendshipService) GetFriends(userID string) ([]model.User, error) {
	ids, err := s.friendshipRepo.FindFriendIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return users, nil
}

// GetFriendIDs returns the identities currently friends with userID
func (s *friendshipService) GetFriendIDs(userID string) ([]string, error) {
	ids, err := s.friendshipRepo.FindFriendIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return ids, nil
}

// GetRequests returns all pending requests where userID is sender or
// receiver. The stored from/to fields let the caller tell incoming from
// outgoing.
func (s *friendshipService) GetRequests(userID string) ([]*model.FriendRequest, error) {
	requests, err := s.friendshipRepo.FindPendingByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return requests, nil
}

// AreFriends reports whether two users are currently friends
func (s *friendshipService) AreFriends(userID1, userID2 string) (bool, error) {
	friends, err := s.friendshipRepo.AreFriends(userID1, userID2)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return friends, nil
}
