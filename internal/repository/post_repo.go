package repository

import (
	"encoding/json"
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindByUserID(userID string, limit, offset int) ([]*model.Post, int64, error)
	FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Post, error)
	Update(post *model.Post) error
	Delete(id string) error
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postCacheExpiration = 15 * time.Minute
)

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a post together with its tag rows
func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post by ID with its tags
func (r *postRepository) FindByID(id string) (*model.Post, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(postCachePrefix + id)
		if err == nil {
			var post model.Post
			if err := json.Unmarshal([]byte(cached), &post); err == nil {
				return &post, nil
			}
		}
	}

	var post model.Post
	err := r.db.Preload("User").Preload("Tags").
		Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.redis.Set(postCachePrefix+id, &post, postCacheExpiration)
	}

	return &post, nil
}

// FindByUserID finds posts authored by a user, newest first
func (r *postRepository) FindByUserID(userID string, limit, offset int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	if err := r.db.Model(&model.Post{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("User").Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// FindByAuthorInWindow finds posts authored by a user with created_at in the
// half-open interval [start, end). Tags are preloaded for attribution.
func (r *postRepository) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("Tags").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates a post
func (r *postRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(postCachePrefix + post.ID)
	}

	return nil
}

// Delete soft-deletes a post
func (r *postRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redis != nil {
		r.redis.Delete(postCachePrefix + id)
	}

	return nil
}
