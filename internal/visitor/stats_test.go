package visitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func visit(start time.Time, end *time.Time) Visitor {
	return Visitor{ID: start.String(), Name: "x", StartTime: start, EndTime: end, IsActive: end == nil}
}

func at(t time.Time) *time.Time { return &t }

func TestComputeStats(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	now := time.Date(2024, 3, 14, 15, 30, 0, 0, berlin)
	midnight := time.Date(2024, 3, 14, 0, 0, 0, 0, berlin)

	visitors := []Visitor{
		visit(now.Add(-30*time.Minute), nil),                                        // today, active
		visit(midnight.Add(time.Minute), at(midnight.Add(46*time.Minute))),          // today, 45 min
		visit(midnight.Add(-time.Minute), at(midnight.Add(-time.Minute+time.Hour))), // yesterday, 60 min
		visit(now.Add(-6*24*time.Hour), at(now.Add(-6*24*time.Hour+2*time.Hour))),   // this week, 120 min
		visit(now.Add(-8*24*time.Hour), nil),                                        // older than a week, still active
	}

	got := ComputeStats(visitors, now, berlin)

	assert.Equal(t, 2, got.TodayCount)
	assert.Equal(t, 2, got.ActiveCount)
	assert.Equal(t, 4, got.WeekCount)
	assert.Equal(t, 75, got.AverageStayMinutes) // (45+60+120)/3
}

func TestComputeStats_TodayUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*3600)
	// 23:30 UTC on the 13th is already the 14th in UTC+9
	now := time.Date(2024, 3, 13, 23, 30, 0, 0, time.UTC)
	v := visit(time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC), nil) // 00:30 on the 14th in UTC+9

	assert.Equal(t, 1, ComputeStats([]Visitor{v}, now, tokyo).TodayCount)
	assert.Equal(t, 1, ComputeStats([]Visitor{v}, now, time.UTC).TodayCount)

	v.StartTime = time.Date(2024, 3, 13, 14, 0, 0, 0, time.UTC) // 23:00 on the 13th in UTC+9
	assert.Equal(t, 0, ComputeStats([]Visitor{v}, now, tokyo).TodayCount)
	assert.Equal(t, 1, ComputeStats([]Visitor{v}, now, time.UTC).TodayCount)
}

func TestComputeStats_AverageRounding(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	start := now.Add(-3 * time.Hour)

	tests := []struct {
		name string
		stay []time.Duration
		want int
	}{
		{name: "exact", stay: []time.Duration{10 * time.Minute}, want: 10},
		{name: "rounds down", stay: []time.Duration{10*time.Minute + 29*time.Second}, want: 10},
		{name: "half rounds up", stay: []time.Duration{10*time.Minute + 30*time.Second}, want: 11},
		{name: "mean of two", stay: []time.Duration{10 * time.Minute, 15 * time.Minute}, want: 13},
		{name: "sub-minute", stay: []time.Duration{20 * time.Second}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vs []Visitor
			for _, d := range tt.stay {
				vs = append(vs, visit(start, at(start.Add(d))))
			}
			assert.Equal(t, tt.want, ComputeStats(vs, now, time.UTC).AverageStayMinutes)
		})
	}
}

func TestComputeStats_Properties(t *testing.T) {
	now := time.Date(2024, 3, 14, 0, 10, 0, 0, time.UTC)

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil, now, time.UTC))
	})

	t.Run("no completed visits means zero average", func(t *testing.T) {
		vs := []Visitor{visit(now.Add(-time.Hour), nil), visit(now.Add(-2*time.Hour), nil)}
		assert.Zero(t, ComputeStats(vs, now, time.UTC).AverageStayMinutes)
	})

	t.Run("today never exceeds week", func(t *testing.T) {
		var vs []Visitor
		for h := -24 * 10; h <= 24; h += 5 {
			vs = append(vs, visit(now.Add(time.Duration(h)*time.Hour), nil))
		}
		for _, loc := range []*time.Location{time.UTC, time.FixedZone("W", -11*3600), time.FixedZone("E", 13*3600)} {
			s := ComputeStats(vs, now, loc)
			assert.LessOrEqual(t, s.TodayCount, s.WeekCount, loc.String())
		}
	})

	t.Run("nil location falls back to local", func(t *testing.T) {
		assert.NotPanics(t, func() { ComputeStats([]Visitor{visit(now, nil)}, now, nil) })
	})
}
