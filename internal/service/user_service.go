package service

import (
	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/repository"
	"failure_bank_backend/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUserByID(id string) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

// UpdateNotificationSettings 校验并保存通知时刻，同时置位设置完成标记
func (s *UserService) UpdateNotificationSettings(userID, timeOfDay string) error {
	if err := util.ValidateTimeOfDay(timeOfDay); err != nil {
		return err
	}
	return s.UserRepo.UpdateNotificationSettings(userID, timeOfDay)
}
