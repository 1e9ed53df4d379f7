package period

import (
	"testing"
	"time"
)

func TestWeekStart_AlwaysMonday(t *testing.T) {
	w := NewWindow(9)

	// 2025-06-02 是周一，覆盖整周每一天
	for day := 2; day <= 8; day++ {
		in := time.Date(2025, time.June, day, 15, 30, 45, 0, w.Location())
		got := w.WeekStart(in)

		if got.Weekday() != time.Monday {
			t.Fatalf("day %d: week start weekday = %v, want Monday", day, got.Weekday())
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Fatalf("day %d: week start not truncated: %v", day, got)
		}
		if got.Day() != 2 {
			t.Fatalf("day %d: week start = %v, want 2025-06-02", day, got)
		}
		if got.After(in) {
			t.Fatalf("week start %v after input %v", got, in)
		}
		if !in.Before(got.AddDate(0, 0, 7)) {
			t.Fatalf("input %v not inside [%v, +7d)", in, got)
		}
	}
}

func TestWeekStart_OnMondayMidnightIdempotent(t *testing.T) {
	w := NewWindow(9)
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, w.Location())

	if got := w.WeekStart(monday); !got.Equal(monday) {
		t.Fatalf("week start of monday midnight = %v, want %v", got, monday)
	}
}

func TestDayStart_Idempotent(t *testing.T) {
	w := NewWindow(9)
	in := time.Date(2025, time.March, 15, 23, 59, 59, 0, w.Location())

	once := w.DayStart(in)
	twice := w.DayStart(once)
	if !once.Equal(twice) {
		t.Fatalf("day start not idempotent: %v != %v", once, twice)
	}
}

func TestMonthEndExclusive_DecemberRollsToNextYear(t *testing.T) {
	w := NewWindow(9)
	got := w.MonthEndExclusive(2024, 12)

	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, w.Location())
	if !got.Equal(want) {
		t.Fatalf("month end of 2024-12 = %v, want %v", got, want)
	}
}

func TestMonthBoundary_HalfOpen(t *testing.T) {
	w := NewWindow(9)

	start := w.MonthEndExclusive(2024, 1).AddDate(0, -1, 0) // 2024-01-01 00:00 本地
	end := w.MonthEndExclusive(2024, 1)

	lastSecond := time.Date(2024, time.January, 31, 23, 59, 59, 0, w.Location())
	nextMidnight := time.Date(2024, time.February, 1, 0, 0, 0, 0, w.Location())

	if lastSecond.Before(start) || !lastSecond.Before(end) {
		t.Fatalf("month-end 23:59:59 should fall inside [%v, %v)", start, end)
	}
	if nextMidnight.Before(end) {
		t.Fatalf("next-month 00:00:00 should fall outside [%v, %v)", start, end)
	}
}

func TestToLocal_ToUTCNaive_Symmetry(t *testing.T) {
	w := NewWindow(9)

	// 库中取出的 UTC naive 时间：2024-05-01 18:30:00
	stored := time.Date(2024, time.May, 1, 18, 30, 0, 0, time.UTC)
	local := w.ToLocal(stored)

	if local.Day() != 2 || local.Hour() != 3 || local.Minute() != 30 {
		t.Fatalf("UTC 18:30 in +9 = %v, want next day 03:30", local)
	}

	back := w.ToUTCNaive(local)
	if !back.Equal(stored) {
		t.Fatalf("round trip mismatch: %v != %v", back, stored)
	}
}

func TestToLocal_IgnoresCarrierLocation(t *testing.T) {
	w := NewWindow(9)

	// 驱动有时会带错误的 Location，字段值才是权威
	carrier := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.FixedZone("bogus", -5*3600))
	local := w.ToLocal(carrier)

	if local.Hour() != 21 {
		t.Fatalf("12:00 treated as UTC should be 21:00 local, got %v", local)
	}
}

func TestNow_UsesInjectedClock(t *testing.T) {
	fixed := time.Date(2025, time.January, 15, 11, 0, 0, 0, time.UTC)
	w := NewWindow(9).WithNow(func() time.Time { return fixed })

	got := w.Now()
	if got.Hour() != 20 {
		t.Fatalf("11:00 UTC should be 20:00 local, got %v", got)
	}
}
