package repository

import (
	"time"

	"socialnet/internal/model"
	"socialnet/internal/util"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	FindByTarget(targetType, targetID string, limit, offset int) ([]*model.Comment, int64, error)
	FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id string) error
	CountByTarget(targetType, targetID string) (int64, error)
}

type commentRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

func NewCommentRepository(db *gorm.DB, redis *util.RedisClient) CommentRepository {
	return &commentRepository{
		db:    db,
		redis: redis,
	}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").
		Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByTarget finds comments on a post or comment, newest first
func (r *commentRepository) FindByTarget(targetType, targetID string, limit, offset int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	if err := r.db.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("User").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// FindByAuthorInWindow finds comments authored by a user with created_at in
// the half-open interval [start, end).
func (r *commentRepository) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) CountByTarget(targetType, targetID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
