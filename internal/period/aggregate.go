package period

import (
	"sort"

	"failure_bank_backend/internal/model"
)

// Stats 一个时间段内的统计量，count 为 0 时平均分为 0.0
// swagger:model PeriodStats
type Stats struct {
	Count        int     `json:"count"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// DayBucket 按本地日历日分组后的单日统计
// swagger:model DayBucket
type DayBucket struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Count        int     `json:"count"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// ComputeStats 计算记录集合的统计量，与输入顺序无关，不修改输入
func ComputeStats(challenges []model.Challenge) Stats {
	s := Stats{Count: len(challenges)}
	for _, c := range challenges {
		s.TotalScore += c.Score
	}
	if s.Count > 0 {
		s.AverageScore = float64(s.TotalScore) / float64(s.Count)
	}
	return s
}

// Calendar 按记录创建时刻的本地日期分组并逐日统计。
// 结果按日期字符串升序（YYYY-MM-DD 字典序即时间序），无记录的日期不出现。
func Calendar(challenges []model.Challenge, w *Window) []DayBucket {
	byDate := make(map[string][]model.Challenge)
	for _, c := range challenges {
		date := w.ToLocal(c.CreatedAt).Format("2006-01-02")
		byDate[date] = append(byDate[date], c)
	}

	buckets := make([]DayBucket, 0, len(byDate))
	for date, group := range byDate {
		s := ComputeStats(group)
		buckets = append(buckets, DayBucket{
			Date:         date,
			Count:        s.Count,
			TotalScore:   s.TotalScore,
			AverageScore: s.AverageScore,
		})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets
}
