package visitor

import (
	"math"
	"time"
)

// Stats are the dashboard counters derived from a full visitor list.
type Stats struct {
	TodayCount         int `json:"today_count"`
	ActiveCount        int `json:"active_count"`
	WeekCount          int `json:"week_count"`
	AverageStayMinutes int `json:"average_stay_minutes"`
}

// ComputeStats aggregates visitors in a single pass.
//
// Today means the calendar day of now in loc. The week window is the trailing
// seven days ending now, with no upper bound, so every visitor counted today is
// also counted in the week. The average stay covers checked-out visitors only,
// rounded to the nearest minute, and is zero when there are none.
func ComputeStats(visitors []Visitor, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := now.Add(-7 * 24 * time.Hour)

	var (
		stats     Stats
		totalStay time.Duration
		completed int
	)
	for _, v := range visitors {
		if !v.StartTime.Before(dayStart) && v.StartTime.Before(dayEnd) {
			stats.TodayCount++
		}
		if !v.StartTime.Before(weekStart) {
			stats.WeekCount++
		}
		if v.IsActive {
			stats.ActiveCount++
		}
		if stay, ok := v.Stay(); ok {
			totalStay += stay
			completed++
		}
	}
	if completed > 0 {
		avg := float64(totalStay) / float64(completed) / float64(time.Minute)
		stats.AverageStayMinutes = int(math.Floor(avg + 0.5))
	}
	return stats
}
