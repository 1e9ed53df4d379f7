package service

import (
	"context"
	"errors"

	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/repository"
	"failure_bank_backend/internal/util"

	"gorm.io/gorm"
)

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	Stats         *StatsService
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, stats *StatsService) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		Stats:         stats,
	}
}

func (s *ChallengeService) Create(ctx context.Context, userID, content string, score int) (*model.Challenge, error) {
	challenge := &model.Challenge{
		UserID:  userID,
		Content: content,
		Score:   score,
	}
	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	s.Stats.InvalidateSummary(ctx, userID)
	return challenge, nil
}

func (s *ChallengeService) List(userID string) ([]model.Challenge, error) {
	return s.ChallengeRepo.FindByOwner(userID)
}

// Get 非属主访问与不存在一律返回 ErrChallengeNotFound，不泄露存在性
func (s *ChallengeService) Get(id, userID string) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByIDAndOwner(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return challenge, nil
}

// Update 部分更新：nil 字段保持原值
func (s *ChallengeService) Update(ctx context.Context, id, userID string, content *string, score *int) (*model.Challenge, error) {
	challenge, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	if content != nil {
		challenge.Content = *content
	}
	if score != nil {
		challenge.Score = *score
	}

	if err := s.ChallengeRepo.Update(challenge); err != nil {
		return nil, err
	}
	s.Stats.InvalidateSummary(ctx, userID)
	return challenge, nil
}

func (s *ChallengeService) Delete(ctx context.Context, id, userID string) error {
	err := s.ChallengeRepo.Delete(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrChallengeNotFound
	}
	if err != nil {
		return err
	}
	s.Stats.InvalidateSummary(ctx, userID)
	return nil
}
