package repository

import (
	"encoding/json"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByUserID(userID string) (*model.Profile, error)
	Update(profile *model.Profile) error
	Delete(userID string) error
}

type profileRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	profileCachePrefix     = "profile:user:"
	profileCacheExpiration = 15 * time.Minute
)

func NewProfileRepository(db *gorm.DB, redis *util.RedisClient) ProfileRepository {
	return &profileRepository{
		db:    db,
		redis: redis,
	}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(profileCachePrefix + profile.UserID)
	}

	return nil
}

func (r *profileRepository) FindByUserID(userID string) (*model.Profile, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(profileCachePrefix + userID)
		if err == nil {
			var profile model.Profile
			if err := json.Unmarshal([]byte(cached), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	var profile model.Profile
	err := r.db.Preload("User").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(profileCachePrefix+userID, &profile, profileCacheExpiration)
	}

	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(profileCachePrefix + profile.UserID)
	}

	return nil
}

func (r *profileRepository) Delete(userID string) error {
	result := r.db.Where("user_id = ?", userID).Delete(&model.Profile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redis != nil {
		r.redis.Delete(profileCachePrefix + userID)
	}

	return nil
}
