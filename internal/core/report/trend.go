package report

import (
	"time"

	"github.com/studioops/reelflow/internal/core/task"
)

// dateLayout is the ISO-8601 date form used by deadline and post dates.
const dateLayout = "2006-01-02"

// DayBucket is one calendar day of the trend series.
type DayBucket struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// DailyTrend counts tasks over the 7 calendar days ending on now's day.
// A day's total counts tasks posted that day; its completed count requires
// both a completion timestamp on that day and a status in the completed
// set. Tasks missing the relevant date are left out of that series rather
// than pushed to an adjacent day.
func DailyTrend(tasks []task.Task, now time.Time) []DayBucket {
	days := make([]DayBucket, 7)
	index := make(map[string]int, 7)
	start := now.AddDate(0, 0, -6)
	for i := range days {
		key := start.AddDate(0, 0, i).Format(dateLayout)
		days[i] = DayBucket{Date: key}
		index[key] = i
	}

	for _, t := range tasks {
		if t.PostDate != "" {
			if i, ok := index[t.PostDate]; ok {
				days[i].Total++
			}
		}
		if t.CompletedAt != nil && task.CompletedSet.Has(t.Status) {
			if i, ok := index[t.CompletedAt.Format(dateLayout)]; ok {
				days[i].Completed++
			}
		}
	}

	return days
}

// WeekRange returns the current week's boundaries: Sunday 00:00:00.000
// through Saturday 23:59:59.999 in now's location. Weeks never snap to
// month boundaries.
func WeekRange(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// InWeek reports whether an ISO date string falls inside the week
// containing now. Unparseable or empty dates are outside every week.
func InWeek(date string, now time.Time) bool {
	if date == "" {
		return false
	}
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return false
	}
	start, end := WeekRange(now)
	return !d.Before(start) && !d.After(end)
}
