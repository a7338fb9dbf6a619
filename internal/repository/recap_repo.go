package repository

import (
	"encoding/json"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type RecapRepository interface {
	Create(recap *model.Recap) error
	FindByUserID(userID string, limit, offset int) ([]*model.Recap, int64, error)
	FindLatestByUserID(userID string) (*model.Recap, error)
}

type recapRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	recapLatestCachePrefix = "recap:latest:"
	recapCacheExpiration   = 15 * time.Minute
)

func NewRecapRepository(db *gorm.DB, redis *util.RedisClient) RecapRepository {
	return &recapRepository{
		db:    db,
		redis: redis,
	}
}

// Create stores a new recap. Recaps are immutable; a new recap supersedes
// the previous one for presentation, so only the latest-recap cache entry
// needs invalidating.
func (r *recapRepository) Create(recap *model.Recap) error {
	if err := r.db.Create(recap).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(recapLatestCachePrefix + recap.UserID)
	}

	return nil
}

// FindByUserID finds recaps for a user, newest first
func (r *recapRepository) FindByUserID(userID string, limit, offset int) ([]*model.Recap, int64, error) {
	var recaps []*model.Recap
	var total int64

	if err := r.db.Model(&model.Recap{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recaps).Error
	if err != nil {
		return nil, 0, err
	}

	return recaps, total, nil
}

// FindLatestByUserID finds the most recent recap for a user
func (r *recapRepository) FindLatestByUserID(userID string) (*model.Recap, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(recapLatestCachePrefix + userID)
		if err == nil {
			var recap model.Recap
			if err := json.Unmarshal([]byte(cached), &recap); err == nil {
				return &recap, nil
			}
		}
	}

	var recap model.Recap
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&recap).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(recapLatestCachePrefix+userID, &recap, recapCacheExpiration)
	}

	return &recap, nil
}
