package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type FriendshipRepository interface {
	CreateRequest(request *model.FriendRequest) error
	FindRequestByID(id string) (*model.FriendRequest, error)
	FindPendingRequest(fromID, toID string) (*model.FriendRequest, error)
	FindPendingBetween(userID1, userID2 string) (*model.FriendRequest, error)
	FindPendingByUserID(userID string) ([]*model.FriendRequest, error)
	DeletePendingRequest(fromID, toID string) error
	AcceptRequest(fromID, toID string) (*model.FriendRequest, error)
	RejectRequest(fromID, toID string) (*model.FriendRequest, error)
	RemoveFriendship(userID1, userID2 string) error
	AreFriends(userID1, userID2 string) (bool, error)
	FindFriendIDs(userID string) ([]string, error)
}

type friendshipRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	friendIDsCachePrefix      = "friends:ids:"
	pendingByUserCachePrefix  = "friends:pending:"
	friendshipCacheExpiration = 15 * time.Minute
)

func NewFriendshipRepository(db *gorm.DB, redis *util.RedisClient) FriendshipRepository {
	return &friendshipRepository{
		db:    db,
		redis: redis,
	}
}

// CreateRequest inserts a new pending friend request
func (r *friendshipRepository) CreateRequest(request *model.FriendRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidatePendingCache(request.FromID)
		r.invalidatePendingCache(request.ToID)
	}

	return nil
}

// FindRequestByID finds a friend request by ID
func (r *friendshipRepository) FindRequestByID(id string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	err := r.db.Preload("From").Preload("To").
		Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingRequest finds the pending request sent from one user to another
func (r *friendshipRepository) FindPendingRequest(fromID, toID string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	err := r.db.Where("from_id = ? AND to_id = ? AND status = ?",
		fromID, toID, model.FriendRequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBetween finds a pending request between two users in either direction
func (r *friendshipRepository) FindPendingBetween(userID1, userID2 string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	err := r.db.Where("((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)) AND status = ?",
		userID1, userID2, userID2, userID1, model.FriendRequestStatusPending).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingByUserID finds all pending requests where the user is sender or receiver
func (r *friendshipRepository) FindPendingByUserID(userID string) ([]*model.FriendRequest, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getRequestListFromCache(pendingByUserCachePrefix + userID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var requests []*model.FriendRequest
	err := r.db.Preload("From").Preload("To").
		Where("(from_id = ? OR to_id = ?) AND status = ?",
			userID, userID, model.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheRequestList(pendingByUserCachePrefix+userID, requests)
	}

	return requests, nil
}

// DeletePendingRequest deletes the pending request sent from one user to another
func (r *friendshipRepository) DeletePendingRequest(fromID, toID string) error {
	result := r.db.Where("from_id = ? AND to_id = ? AND status = ?",
		fromID, toID, model.FriendRequestStatusPending).
		Delete(&model.FriendRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redis != nil {
		r.invalidatePendingCache(fromID)
		r.invalidatePendingCache(toID)
	}

	return nil
}

// AcceptRequest transitions a pending request to accepted and creates the
// friendship edge in the same transaction. The status-conditional update
// guards against a concurrent accept, reject or withdrawal of the same
// request: whichever transaction commits first wins, the rest see not-found.
func (r *friendshipRepository) AcceptRequest(fromID, toID string) (*model.FriendRequest, error) {
	var accepted model.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Pin down the pending row first; the pair may also carry rejected
		// history rows and those must never be returned as the transitioned
		// request.
		if err := tx.Where("from_id = ? AND to_id = ? AND status = ?",
			fromID, toID, model.FriendRequestStatusPending).
			First(&accepted).Error; err != nil {
			return err
		}

		result := tx.Model(&model.FriendRequest{}).
			Where("id = ? AND status = ?", accepted.ID, model.FriendRequestStatusPending).
			Update("status", model.FriendRequestStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		accepted.Status = model.FriendRequestStatusAccepted

		edge := &model.FriendEdge{UserAID: fromID, UserBID: toID}
		return tx.Create(edge).Error
	})
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.invalidatePendingCache(fromID)
		r.invalidatePendingCache(toID)
		r.invalidateFriendIDsCache(fromID)
		r.invalidateFriendIDsCache(toID)
	}

	return &accepted, nil
}

// RejectRequest transitions a pending request to rejected. No edge is
// created; the rejected record is kept as history and does not block a
// future request between the pair.
func (r *friendshipRepository) RejectRequest(fromID, toID string) (*model.FriendRequest, error) {
	var rejected model.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_id = ? AND to_id = ? AND status = ?",
			fromID, toID, model.FriendRequestStatusPending).
			First(&rejected).Error; err != nil {
			return err
		}

		result := tx.Model(&model.FriendRequest{}).
			Where("id = ? AND status = ?", rejected.ID, model.FriendRequestStatusPending).
			Update("status", model.FriendRequestStatusRejected)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		rejected.Status = model.FriendRequestStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.invalidatePendingCache(fromID)
		r.invalidatePendingCache(toID)
	}

	return &rejected, nil
}

// RemoveFriendship deletes the friendship edge and the accepted request
// record between two users in one transaction, so both directions disappear
// atomically and a fresh request can be sent afterwards.
func (r *friendshipRepository) RemoveFriendship(userID1, userID2 string) error {
	a, b := model.NormalizePair(userID1, userID2)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_a_id = ? AND user_b_id = ?", a, b).
			Delete(&model.FriendEdge{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)) AND status = ?",
			userID1, userID2, userID2, userID1, model.FriendRequestStatusAccepted).
			Delete(&model.FriendRequest{}).Error
	})
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateFriendIDsCache(userID1)
		r.invalidateFriendIDsCache(userID2)
	}

	return nil
}

// AreFriends checks whether a friendship edge exists between two users
func (r *friendshipRepository) AreFriends(userID1, userID2 string) (bool, error) {
	a, b := model.NormalizePair(userID1, userID2)

	var count int64
	err := r.db.Model(&model.FriendEdge{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindFriendIDs returns the IDs of every user currently friends with userID
func (r *friendshipRepository) FindFriendIDs(userID string) ([]string, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(friendIDsCachePrefix + userID)
		if err == nil {
			var ids []string
			if err := json.Unmarshal([]byte(cached), &ids); err == nil {
				return ids, nil
			}
		}
	}

	var edges []model.FriendEdge
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		if edge.UserAID == userID {
			ids = append(ids, edge.UserBID)
		} else {
			ids = append(ids, edge.UserAID)
		}
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(friendIDsCachePrefix+userID, ids, friendshipCacheExpiration)
	}

	return ids, nil
}

// Cache helpers
func (r *friendshipRepository) cacheRequestList(key string, requests []*model.FriendRequest) {
	if r.redis == nil {
		return
	}

	requestsJSON, err := json.Marshal(requests)
	if err != nil {
		return
	}

	r.redis.Set(key, string(requestsJSON), friendshipCacheExpiration)
}

func (r *friendshipRepository) getRequestListFromCache(key string) ([]*model.FriendRequest, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var requests []*model.FriendRequest
	if err := json.Unmarshal([]byte(cached), &requests); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *friendshipRepository) invalidatePendingCache(userID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(pendingByUserCachePrefix + userID)
}

func (r *friendshipRepository) invalidateFriendIDsCache(userID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(friendIDsCachePrefix + userID)
}

// IsNotFound reports whether err is the storage-level missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
