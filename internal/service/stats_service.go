package service

import (
	"context"
	"encoding/json"
	"time"

	"failure_bank_backend/internal/period"
	"failure_bank_backend/internal/repository"
	"failure_bank_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const summaryCacheTTL = 5 * time.Minute

// StatsSummary 三个时间维度的统计概览
// swagger:model StatsSummary
type StatsSummary struct {
	AllTime   period.Stats `json:"all_time"`
	ThisWeek  period.Stats `json:"this_week"`
	ThisMonth period.Stats `json:"this_month"`
}

// CalendarView 某年某月的逐日统计（稀疏，无记录的日期不出现）
// swagger:model CalendarView
type CalendarView struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Days  []period.DayBucket `json:"days"`
}

type StatsService struct {
	ChallengeRepo *repository.ChallengeRepository
	Window        *period.Window
	Redis         *redis.Client
}

func NewStatsService(challengeRepo *repository.ChallengeRepository, window *period.Window, rdb *redis.Client) *StatsService {
	return &StatsService{
		ChallengeRepo: challengeRepo,
		Window:        window,
		Redis:         rdb,
	}
}

func summaryCacheKey(userID string) string {
	return "stats:summary:" + userID
}

// Summary 全量/本周/本月统计，带 Redis 缓存
func (s *StatsService) Summary(ctx context.Context, userID string) (*StatsSummary, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, summaryCacheKey(userID)).Result(); err == nil {
			var summary StatsSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	all, err := s.ChallengeRepo.FindByOwner(userID)
	if err != nil {
		return nil, err
	}

	now := s.Window.Now()
	weekStart := s.Window.ToUTCNaive(s.Window.WeekStart(now))
	monthStart := s.Window.ToUTCNaive(s.Window.MonthStart(now))

	week, err := s.ChallengeRepo.FindByOwnerSince(userID, weekStart)
	if err != nil {
		return nil, err
	}
	month, err := s.ChallengeRepo.FindByOwnerSince(userID, monthStart)
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{
		AllTime:   period.ComputeStats(all),
		ThisWeek:  period.ComputeStats(week),
		ThisMonth: period.ComputeStats(month),
	}

	if s.Redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.Redis.Set(ctx, summaryCacheKey(userID), data, summaryCacheTTL).Err(); err != nil {
				logger.Log.Warn("stats summary cache write failed", zap.Error(err))
			}
		}
	}

	return summary, nil
}

// Calendar 查询某年某月的逐日统计，year/month 合法性由控制器校验
func (s *StatsService) Calendar(ctx context.Context, userID string, year, month int) (*CalendarView, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.Window.Location())
	end := s.Window.MonthEndExclusive(year, month)

	challenges, err := s.ChallengeRepo.FindByOwnerAndRange(
		userID,
		s.Window.ToUTCNaive(start),
		s.Window.ToUTCNaive(end),
	)
	if err != nil {
		return nil, err
	}

	return &CalendarView{
		Year:  year,
		Month: month,
		Days:  period.Calendar(challenges, s.Window),
	}, nil
}

// InvalidateSummary 记录变更后使缓存失效
func (s *StatsService) InvalidateSummary(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, summaryCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("stats summary cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
