package repository

import (
	"time"

	"failure_bank_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

// FindByIDAndOwner 只返回属主自己的记录；他人记录与不存在同样返回 ErrRecordNotFound
func (r *ChallengeRepository) FindByIDAndOwner(id, userID string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) FindByOwner(userID string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}

// FindByOwnerSince 属主在 [utcStart, now] 内的记录，utcStart 为 UTC naive
func (r *ChallengeRepository) FindByOwnerSince(userID string, utcStart time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("user_id = ? AND created_at >= ?", userID, utcStart).Find(&challenges).Error
	return challenges, err
}

// FindByOwnerAndRange 半开区间 [utcStart, utcEnd) 内属主的记录
func (r *ChallengeRepository) FindByOwnerAndRange(userID string, utcStart, utcEnd time.Time) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, utcStart, utcEnd).
		Find(&challenges).Error
	return challenges, err
}

// Update 仅允许修改 content 与 score，属主与创建时间不可变
func (r *ChallengeRepository) Update(challenge *model.Challenge) error {
	return r.DB.Model(&model.Challenge{}).
		Where("id = ? AND user_id = ?", challenge.ID, challenge.UserID).
		Updates(map[string]interface{}{
			"content": challenge.Content,
			"score":   challenge.Score,
		}).Error
}

// Delete 物理删除，限定属主
func (r *ChallengeRepository) Delete(id, userID string) error {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Challenge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
