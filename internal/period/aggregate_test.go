package period

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"failure_bank_backend/internal/model"
)

func challengesWithScores(scores ...int) []model.Challenge {
	chs := make([]model.Challenge, 0, len(scores))
	for i, s := range scores {
		chs = append(chs, model.Challenge{
			ID:        string(rune('a' + i)),
			Content:   "c",
			Score:     s,
			CreatedAt: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
		})
	}
	return chs
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)

	if s.Count != 0 || s.TotalScore != 0 {
		t.Fatalf("empty stats = %+v, want zeros", s)
	}
	if s.AverageScore != 0.0 {
		t.Fatalf("empty average = %v, want 0.0", s.AverageScore)
	}
}

func TestComputeStats_Basic(t *testing.T) {
	s := ComputeStats(challengesWithScores(1, 2, 3))

	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if s.TotalScore != 6 {
		t.Errorf("total = %d, want 6", s.TotalScore)
	}
	if s.AverageScore != 2.0 {
		t.Errorf("average = %v, want 2.0", s.AverageScore)
	}
}

func TestComputeStats_OrderIndependent(t *testing.T) {
	a := ComputeStats(challengesWithScores(5, 1, 4, 2, 3))
	b := ComputeStats(challengesWithScores(3, 2, 4, 1, 5))

	if a != b {
		t.Fatalf("order changed result: %+v != %+v", a, b)
	}
}

func TestCalendar_GroupsByLocalDate(t *testing.T) {
	w := NewWindow(9)

	chs := []model.Challenge{
		// UTC 3/10 14:00 → 本地 3/10 23:00
		{ID: "1", Score: 3, CreatedAt: time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)},
		// UTC 3/10 16:00 → 本地 3/11 01:00，跨到下一天
		{ID: "2", Score: 5, CreatedAt: time.Date(2024, time.March, 10, 16, 0, 0, 0, time.UTC)},
		{ID: "3", Score: 1, CreatedAt: time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)},
	}

	buckets := Calendar(chs, w)

	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d, want 2: %+v", len(buckets), buckets)
	}
	if buckets[0].Date != "2024-03-10" || buckets[1].Date != "2024-03-11" {
		t.Fatalf("dates = %s, %s, want ascending 03-10, 03-11", buckets[0].Date, buckets[1].Date)
	}
	if buckets[0].Count != 1 || buckets[0].TotalScore != 3 {
		t.Errorf("03-10 bucket = %+v, want count 1 total 3", buckets[0])
	}
	if buckets[1].Count != 2 || buckets[1].TotalScore != 6 || buckets[1].AverageScore != 3.0 {
		t.Errorf("03-11 bucket = %+v, want count 2 total 6 avg 3.0", buckets[1])
	}
}

func TestCalendar_IsPartition(t *testing.T) {
	w := NewWindow(9)

	chs := challengesWithScores(1, 2, 3, 4, 5)
	for i := range chs {
		chs[i].CreatedAt = time.Date(2024, time.March, 8+i, 10, 0, 0, 0, time.UTC)
	}

	buckets := Calendar(chs, w)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != len(chs) {
		t.Fatalf("bucket counts sum to %d, want %d", total, len(chs))
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i-1].Date >= buckets[i].Date {
			t.Fatalf("buckets not strictly ascending: %s >= %s", buckets[i-1].Date, buckets[i].Date)
		}
	}
}

func TestCalendar_LocalMidnightBelongsToStartingDay(t *testing.T) {
	w := NewWindow(9)

	// UTC 15:00 = 本地次日 00:00:00 整点，应归属开始的那一天
	chs := []model.Challenge{
		{ID: "1", Score: 2, CreatedAt: time.Date(2024, time.June, 30, 15, 0, 0, 0, time.UTC)},
	}

	buckets := Calendar(chs, w)
	if len(buckets) != 1 || buckets[0].Date != "2024-07-01" {
		t.Fatalf("midnight record bucketed as %+v, want 2024-07-01", buckets)
	}
}

// 对外契约统一 snake_case 键名
func TestStatsJSONKeysAreSnakeCase(t *testing.T) {
	data, err := json.Marshal(Stats{Count: 1, TotalScore: 3, AverageScore: 3.0})
	if err != nil {
		t.Fatalf("marshal stats: %v", err)
	}
	for _, key := range []string{`"count"`, `"total_score"`, `"average_score"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("stats JSON missing key %s: %s", key, data)
		}
	}

	data, err = json.Marshal(DayBucket{Date: "2024-03-10", Count: 1, TotalScore: 3, AverageScore: 3.0})
	if err != nil {
		t.Fatalf("marshal day bucket: %v", err)
	}
	for _, key := range []string{`"date"`, `"total_score"`, `"average_score"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("day bucket JSON missing key %s: %s", key, data)
		}
	}
}

func TestCalendar_Empty(t *testing.T) {
	w := NewWindow(9)
	if buckets := Calendar(nil, w); len(buckets) != 0 {
		t.Fatalf("empty input produced %d buckets", len(buckets))
	}
}
