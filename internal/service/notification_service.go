package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"failure_bank_backend/internal/config"
	"failure_bank_backend/internal/mailer"
	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/period"
	"failure_bank_backend/pkg/logger"
	"failure_bank_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	notificationSubject = "今日も挑戦を記録しましょう！"
	htmlTemplateName    = "notification_email.html"
	textTemplateName    = "notification_email.txt"
	sendFailedTag       = "send_failed"
	weekDateLayout      = "2006/01/02"
)

// UserSource 批处理候选人查询，由 repository.UserRepository 满足
type UserSource interface {
	FindByNotificationHour(hour int) ([]model.User, error)
}

// ChallengeSource 每个收件人的周统计数据来源
type ChallengeSource interface {
	FindByOwnerSince(userID string, utcStart time.Time) ([]model.Challenge, error)
}

// FailedEmail 单个收件人的失败摘要，不携带原始错误细节
type FailedEmail struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Error  string `json:"error"`
}

// BatchResult 一次批处理的汇总
// swagger:model BatchResult
type BatchResult struct {
	TotalUsers       int           `json:"total_users"`
	EmailsSent       int           `json:"emails_sent"`
	EmailsFailed     int           `json:"emails_failed"`
	CurrentHourLocal int           `json:"current_hour_local"`
	FailedEmails     []FailedEmail `json:"failed_emails"`
}

// TestSendResult 测试邮件的发送回执
// swagger:model TestSendResult
type TestSendResult struct {
	Email  string `json:"email"`
	SentAt string `json:"sent_at"`
}

// weeklyStats 渲染邮件用的本周统计
type weeklyStats struct {
	Count      int
	TotalScore int
	Average    float64
	WeekStart  string
	WeekEnd    string
}

type NotificationService struct {
	Users      UserSource
	Challenges ChallengeSource
	Mail       mailer.Mailer
	Templates  mailer.TemplateSource
	Window     *period.Window

	mu        sync.RWMutex
	fromEmail string
	appURL    string
}

func NewNotificationService(
	users UserSource,
	challenges ChallengeSource,
	mail mailer.Mailer,
	templates mailer.TemplateSource,
	window *period.Window,
	cfg *config.NotificationConfig,
) *NotificationService {
	return &NotificationService{
		Users:      users,
		Challenges: challenges,
		Mail:       mail,
		Templates:  templates,
		Window:     window,
		fromEmail:  cfg.FromEmail,
		appURL:     cfg.AppURL,
	}
}

// ApplyConfig 配置热更新回调，只覆盖可安全替换的字段
func (s *NotificationService) ApplyConfig(cfg *config.NotificationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fromEmail = cfg.FromEmail
	s.appURL = cfg.AppURL
}

func (s *NotificationService) senderConfig() (fromEmail, appURL string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fromEmail, s.appURL
}

// matchesHour 通知时刻偏好是否落在指定本地小时。
// 匹配只到小时粒度（"20:30" 在整个 20 点时段都匹配）；
// 无法解析的偏好视为不匹配，静默排除而不是让整批失败。
func matchesHour(pref string, hour int) bool {
	if len(pref) < 3 || pref[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(pref[0:2])
	if err != nil {
		return false
	}
	return h == hour
}

// RunBatch 执行一次通知批处理。
// 单个收件人的失败只计数不中断；候选人查询失败对整批致命。
func (s *NotificationService) RunBatch(ctx context.Context) (*BatchResult, error) {
	start := time.Now()
	defer func() {
		monitoring.NotificationBatchDuration.Observe(time.Since(start).Seconds())
	}()

	currentHour := s.Window.Now().Hour()

	users, err := s.Users.FindByNotificationHour(currentHour)
	if err != nil {
		return nil, fmt.Errorf("fetch notification candidates: %w", err)
	}

	candidates := make([]model.User, 0, len(users))
	for _, u := range users {
		if matchesHour(u.NotificationTime, currentHour) {
			candidates = append(candidates, u)
		}
	}

	result := &BatchResult{
		TotalUsers:       len(candidates),
		CurrentHourLocal: currentHour,
		FailedEmails:     []FailedEmail{},
	}

	for _, u := range candidates {
		if err := s.sendTo(ctx, &u); err != nil {
			result.EmailsFailed++
			result.FailedEmails = append(result.FailedEmails, FailedEmail{
				UserID: u.ID,
				Email:  u.Email,
				Error:  sendFailedTag,
			})
			monitoring.NotificationMailCounter.WithLabelValues("failed").Inc()
			logger.Log.Warn("notification send failed",
				zap.String("user_id", u.ID),
				zap.String("email", u.Email),
				zap.Error(err),
			)
			continue
		}
		result.EmailsSent++
		monitoring.NotificationMailCounter.WithLabelValues("sent").Inc()
	}

	logger.Log.Info("notification batch completed",
		zap.Int("total_users", result.TotalUsers),
		zap.Int("emails_sent", result.EmailsSent),
		zap.Int("emails_failed", result.EmailsFailed),
		zap.Int("current_hour_local", result.CurrentHourLocal),
	)

	return result, nil
}

// SendTest 给当前用户立即发送一封通知邮件
func (s *NotificationService) SendTest(ctx context.Context, user *model.User) (*TestSendResult, error) {
	if err := s.sendTo(ctx, user); err != nil {
		return nil, err
	}
	return &TestSendResult{
		Email:  user.Email,
		SentAt: s.Window.Now().Format(time.RFC3339),
	}, nil
}

func (s *NotificationService) sendTo(ctx context.Context, user *model.User) error {
	if s.Mail == nil {
		return fmt.Errorf("mailer not configured")
	}

	stats, err := s.currentWeekStats(user.ID)
	if err != nil {
		return err
	}

	msg := s.renderMessage(user, stats)
	return s.Mail.Send(ctx, msg)
}

// currentWeekStats 本周（本地周一 00:00 起）的统计
func (s *NotificationService) currentWeekStats(userID string) (weeklyStats, error) {
	now := s.Window.Now()
	weekStart := s.Window.WeekStart(now)

	challenges, err := s.Challenges.FindByOwnerSince(userID, s.Window.ToUTCNaive(weekStart))
	if err != nil {
		return weeklyStats{}, err
	}

	stats := period.ComputeStats(challenges)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)

	return weeklyStats{
		Count:      stats.Count,
		TotalScore: stats.TotalScore,
		Average:    stats.AverageScore,
		WeekStart:  weekStart.Format(weekDateLayout),
		WeekEnd:    weekEnd.Format(weekDateLayout),
	}, nil
}

func (s *NotificationService) renderMessage(user *model.User, stats weeklyStats) mailer.Message {
	fromEmail, appURL := s.senderConfig()

	context := map[string]string{
		"email":           user.Email,
		"challenge_count": strconv.Itoa(stats.Count),
		"total_score":     strconv.Itoa(stats.TotalScore),
		"average_score":   fmt.Sprintf("%.1f", stats.Average),
		"week_start":      stats.WeekStart,
		"week_end":        stats.WeekEnd,
		"app_url":         appURL,
	}

	var htmlBody, textBody string
	if s.Templates != nil {
		if tpl := s.Templates.Load(htmlTemplateName); tpl != "" {
			htmlBody = mailer.RenderTemplate(tpl, context)
		}
		if tpl := s.Templates.Load(textTemplateName); tpl != "" {
			textBody = mailer.RenderTemplate(tpl, context)
		}
	}

	// 模板缺失时合成最小文本正文，保证本次投递仍可尝试
	if htmlBody == "" && textBody == "" {
		textBody = fmt.Sprintf(
			"Hi %s\n\n今週の挑戦回数: %d\n合計スコア: %d\n平均スコア: %.1f\n\nアプリへ: %s\n",
			user.Email, stats.Count, stats.TotalScore, stats.Average, appURL,
		)
	}

	return mailer.Message{
		From:    fromEmail,
		To:      user.Email,
		Subject: notificationSubject,
		HTML:    htmlBody,
		Text:    textBody,
	}
}
