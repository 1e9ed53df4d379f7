// Package period 负责固定时区偏移下的日/周/月边界计算与记录聚合。
// 数据库中的时间戳统一为不带偏移信息的 UTC，展示与分桶前需先转换为本地时间。
package period

import (
	"fmt"
	"time"
)

// Window 固定偏移时区下的时间边界计算器。
// 偏移与时钟均可注入，便于测试与将来支持多时区。
type Window struct {
	loc *time.Location
	now func() time.Time
}

// NewWindow 创建指定小时偏移的 Window（系统默认 +9）
func NewWindow(offsetHours int) *Window {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return &Window{
		loc: time.FixedZone(name, offsetHours*3600),
		now: time.Now,
	}
}

// WithNow 返回使用指定时钟的副本，仅用于测试
func (w *Window) WithNow(now func() time.Time) *Window {
	return &Window{loc: w.loc, now: now}
}

func (w *Window) Location() *time.Location {
	return w.loc
}

// Now 当前时刻的本地表示
func (w *Window) Now() time.Time {
	return w.now().In(w.loc)
}

// DayStart 截断到当天本地 00:00:00
func (w *Window) DayStart(t time.Time) time.Time {
	t = t.In(w.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.loc)
}

// WeekStart 截断到本周周一本地 00:00:00（ISO 惯例，周一为一周起点）
func (w *Window) WeekStart(t time.Time) time.Time {
	d := w.DayStart(t)
	// time.Weekday 周日为 0，换算成周一为 0 的偏移
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -back)
}

// MonthStart 截断到当月 1 日本地 00:00:00
func (w *Window) MonthStart(t time.Time) time.Time {
	t = t.In(w.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, w.loc)
}

// MonthEndExclusive 下月 1 日本地 00:00:00（半开区间右端，12 月滚动到次年 1 月）。
// month 的合法性由调用方保证。
func (w *Window) MonthEndExclusive(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, w.loc).AddDate(0, 1, 0)
}

// ToUTCNaive 去掉偏移信息转为 UTC，用于和库中存储值比较
func (w *Window) ToUTCNaive(t time.Time) time.Time {
	return t.UTC()
}

// ToLocal 把库中取出的 UTC naive 时间戳视为 UTC 并转为本地时间。
// 不信任载体上的 Location，按字段重建。
func (w *Window) ToLocal(t time.Time) time.Time {
	utc := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return utc.In(w.loc)
}
