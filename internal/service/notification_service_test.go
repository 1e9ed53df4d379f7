package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"failure_bank_backend/internal/config"
	"failure_bank_backend/internal/mailer"
	"failure_bank_backend/internal/model"
	"failure_bank_backend/internal/period"
	"failure_bank_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeUserSource struct {
	users []model.User
	err   error
}

func (f *fakeUserSource) FindByNotificationHour(hour int) ([]model.User, error) {
	return f.users, f.err
}

type fakeChallengeSource struct {
	challenges map[string][]model.Challenge
	err        error
}

func (f *fakeChallengeSource) FindByOwnerSince(userID string, utcStart time.Time) ([]model.Challenge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.challenges[userID], nil
}

type recordingMailer struct {
	sent    []sentMail
	failFor map[string]bool
}

type sentMail struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.failFor[msg.To] {
		return errors.New("smtp rejected")
	}
	m.sent = append(m.sent, sentMail{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	return nil
}

// fakeTemplates 以模板名为键的内存模板源，缺失返回空串
type fakeTemplates map[string]string

func (f fakeTemplates) Load(name string) string {
	return f[name]
}

func newNotificationFixture(users *fakeUserSource, challenges *fakeChallengeSource, mail *recordingMailer, templates fakeTemplates, nowUTC time.Time) *NotificationService {
	window := period.NewWindow(9).WithNow(func() time.Time { return nowUTC })
	return NewNotificationService(users, challenges, mail, templates, window, &config.NotificationConfig{
		FromEmail: "noreply@example.com",
		AppURL:    "https://app.example.com",
	})
}

func TestMatchesHour(t *testing.T) {
	cases := []struct {
		pref string
		hour int
		want bool
	}{
		{"20:15", 20, true},
		{"20:15", 19, false},
		{"20:15", 21, false},
		{"20:00", 20, true},
		{"09:30", 9, true},
		{"garbage", 20, false},
		{"2:00", 2, false},
		{"", 20, false},
		{"20", 20, false},
	}
	for _, tc := range cases {
		if got := matchesHour(tc.pref, tc.hour); got != tc.want {
			t.Errorf("matchesHour(%q, %d) = %v, want %v", tc.pref, tc.hour, got, tc.want)
		}
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	// 本地 20 点对应 UTC 11 点
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)

	users := &fakeUserSource{users: []model.User{
		{ID: "u1", Email: "a@example.com", NotificationTime: "20:00"},
		{ID: "u2", Email: "b@example.com", NotificationTime: "20:30"},
		{ID: "u3", Email: "c@example.com", NotificationTime: "20:45"},
	}}
	challenges := &fakeChallengeSource{challenges: map[string][]model.Challenge{}}
	mail := &recordingMailer{failFor: map[string]bool{"b@example.com": true}}

	svc := newNotificationFixture(users, challenges, mail, fakeTemplates{}, now)

	result, err := svc.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}

	if result.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", result.TotalUsers)
	}
	if result.EmailsSent != 2 {
		t.Errorf("EmailsSent = %d, want 2", result.EmailsSent)
	}
	if result.EmailsFailed != 1 {
		t.Errorf("EmailsFailed = %d, want 1", result.EmailsFailed)
	}
	if result.CurrentHourLocal != 20 {
		t.Errorf("CurrentHourLocal = %d, want 20", result.CurrentHourLocal)
	}
	if len(result.FailedEmails) != 1 {
		t.Fatalf("FailedEmails len = %d, want 1", len(result.FailedEmails))
	}
	f := result.FailedEmails[0]
	if f.UserID != "u2" || f.Email != "b@example.com" || f.Error != "send_failed" {
		t.Errorf("unexpected failure entry: %+v", f)
	}
}

func TestRunBatchExcludesMalformedPreferences(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)

	users := &fakeUserSource{users: []model.User{
		{ID: "u1", Email: "a@example.com", NotificationTime: "20:00"},
		{ID: "u2", Email: "b@example.com", NotificationTime: "bogus"},
	}}
	mail := &recordingMailer{}

	svc := newNotificationFixture(users, &fakeChallengeSource{}, mail, fakeTemplates{}, now)

	result, err := svc.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if result.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1 (malformed preference excluded)", result.TotalUsers)
	}
	if result.EmailsSent != 1 || result.EmailsFailed != 0 {
		t.Errorf("sent/failed = %d/%d, want 1/0", result.EmailsSent, result.EmailsFailed)
	}
}

func TestRunBatchEmptyCandidates(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)
	svc := newNotificationFixture(&fakeUserSource{}, &fakeChallengeSource{}, &recordingMailer{}, fakeTemplates{}, now)

	result, err := svc.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if result.TotalUsers != 0 || result.EmailsSent != 0 || result.EmailsFailed != 0 {
		t.Errorf("unexpected result for empty batch: %+v", result)
	}
	if result.FailedEmails == nil {
		t.Error("FailedEmails should be an empty slice, not nil")
	}
}

func TestRunBatchFatalOnCandidateFetchError(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)
	users := &fakeUserSource{err: errors.New("db down")}
	svc := newNotificationFixture(users, &fakeChallengeSource{}, &recordingMailer{}, fakeTemplates{}, now)

	if _, err := svc.RunBatch(context.Background()); err == nil {
		t.Fatal("expected error when candidate fetch fails")
	}
}

func TestSendTestRendersWeeklyStats(t *testing.T) {
	// 本地 2025-06-04（周三）20:00，本周起点为周一 6/2
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)

	challenges := &fakeChallengeSource{challenges: map[string][]model.Challenge{
		"u1": {
			{ID: "c1", UserID: "u1", Score: 3},
			{ID: "c2", UserID: "u1", Score: 4},
		},
	}}
	mail := &recordingMailer{}
	templates := fakeTemplates{
		"notification_email.txt": "count={{ challenge_count }} total={{ total_score }} avg={{ average_score }} week={{ week_start }}-{{ week_end }} url={{ app_url }}",
	}

	svc := newNotificationFixture(&fakeUserSource{}, challenges, mail, templates, now)

	user := &model.User{ID: "u1", Email: "a@example.com", NotificationTime: "20:00"}
	result, err := svc.SendTest(context.Background(), user)
	if err != nil {
		t.Fatalf("SendTest error: %v", err)
	}
	if result.Email != "a@example.com" {
		t.Errorf("Email = %q, want a@example.com", result.Email)
	}
	if _, err := time.Parse(time.RFC3339, result.SentAt); err != nil {
		t.Errorf("SentAt %q is not RFC3339: %v", result.SentAt, err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	m := mail.sent[0]
	if m.Subject != "今日も挑戦を記録しましょう！" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if m.From != "noreply@example.com" || m.To != "a@example.com" {
		t.Errorf("From/To = %q/%q", m.From, m.To)
	}
	want := "count=2 total=7 avg=3.5 week=2025/06/02-2025/06/08 url=https://app.example.com"
	if m.Text != want {
		t.Errorf("Text = %q, want %q", m.Text, want)
	}
}

func TestSendTestFallbackBodyWhenTemplatesMissing(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)
	mail := &recordingMailer{}
	svc := newNotificationFixture(&fakeUserSource{}, &fakeChallengeSource{}, mail, fakeTemplates{}, now)

	user := &model.User{ID: "u1", Email: "a@example.com"}
	if _, err := svc.SendTest(context.Background(), user); err != nil {
		t.Fatalf("SendTest error: %v", err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	m := mail.sent[0]
	if m.HTML != "" {
		t.Errorf("HTML should be empty without a template, got %q", m.HTML)
	}
	if m.Text == "" {
		t.Error("Text fallback body should not be empty")
	}
	if !strings.Contains(m.Text, "a@example.com") {
		t.Errorf("fallback body should mention the recipient, got %q", m.Text)
	}
}

func TestSendTestFailsWithoutMailer(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)
	window := period.NewWindow(9).WithNow(func() time.Time { return now })
	svc := NewNotificationService(&fakeUserSource{}, &fakeChallengeSource{}, nil, fakeTemplates{}, window, &config.NotificationConfig{})

	if _, err := svc.SendTest(context.Background(), &model.User{ID: "u1", Email: "a@example.com"}); err == nil {
		t.Fatal("expected error when mailer is not configured")
	}
}

func TestApplyConfigSwapsSender(t *testing.T) {
	now := time.Date(2025, 6, 4, 11, 0, 0, 0, time.UTC)
	mail := &recordingMailer{}
	svc := newNotificationFixture(&fakeUserSource{}, &fakeChallengeSource{}, mail, fakeTemplates{}, now)

	svc.ApplyConfig(&config.NotificationConfig{
		FromEmail: "updated@example.com",
		AppURL:    "https://new.example.com",
	})

	if _, err := svc.SendTest(context.Background(), &model.User{ID: "u1", Email: "a@example.com"}); err != nil {
		t.Fatalf("SendTest error: %v", err)
	}
	if mail.sent[0].From != "updated@example.com" {
		t.Errorf("From = %q, want updated@example.com", mail.sent[0].From)
	}
}
