package repository

import (
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type ReactionRepository interface {
	Create(reaction *model.Reaction) error
	FindByID(id string) (*model.Reaction, error)
	FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error)
	FindByTarget(targetType, targetID string) ([]*model.Reaction, error)
	FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Reaction, error)
	Update(reaction *model.Reaction) error
	Delete(id string) error
	CountByTarget(targetType, targetID string) (int64, error)
}

type reactionRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

func NewReactionRepository(db *gorm.DB, redis *util.RedisClient) ReactionRepository {
	return &reactionRepository{
		db:    db,
		redis: redis,
	}
}

func (r *reactionRepository) Create(reaction *model.Reaction) error {
	return r.db.Create(reaction).Error
}

func (r *reactionRepository) FindByID(id string) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Preload("User").
		Where("id = ?", id).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) FindByTarget(targetType, targetID string) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	err := r.db.Preload("User").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

// FindByAuthorInWindow finds reactions authored by a user with created_at in
// the half-open interval [start, end).
func (r *reactionRepository) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	err := r.db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (r *reactionRepository) Update(reaction *model.Reaction) error {
	return r.db.Save(reaction).Error
}

func (r *reactionRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reactionRepository) CountByTarget(targetType, targetID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Reaction{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
