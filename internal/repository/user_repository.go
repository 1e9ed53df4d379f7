package repository

import (
	"fmt"

	"failure_bank_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateNotificationSettings 更新通知时刻并标记设置已完成
func (r *UserRepository) UpdateNotificationSettings(userID, timeOfDay string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"notification_time":               timeOfDay,
		"is_notification_setup_completed": true,
	}).Error
}

// FindByNotificationHour 取通知时刻落在指定本地小时（0-23）的用户。
// notification_time 按 "HH:MM" 保存，用 LIKE 匹配小时前缀。
func (r *UserRepository) FindByNotificationHour(hour int) ([]model.User, error) {
	var users []model.User
	pattern := fmt.Sprintf("%02d:%%", hour)
	err := r.DB.Where("notification_time LIKE ?", pattern).Find(&users).Error
	return users, err
}

// Delete 删除用户，挑战记录随外键级联删除
func (r *UserRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.User{}).Error
}
