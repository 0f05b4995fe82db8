// Package metrics turns per-day task outcomes into the behavioral snapshot
// the badge rules evaluate. Everything in here is pure: no I/O, no clocks
// beyond the instant passed in, no maps iterated in random order on the way
// to an output value
package metrics

import "time"

// TaskOutcome is one task's completion state within a day
type TaskOutcome struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DaySummary is one calendar date's outcome for one child.
// Date is the KST civil date key ("2006-01-02"); it is unique within a
// child's history. Derived from the task store, never persisted
type DaySummary struct {
	Date      string        `json:"date"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Tasks     []TaskOutcome `json:"tasks,omitempty"`
}

// Rate returns Completed/Total, 0 when Total is 0
func (d DaySummary) Rate() float64 {
	if d.Total <= 0 {
		return 0
	}
	return float64(d.Completed) / float64(d.Total)
}

// Perfect reports whether the day had tasks and all of them were completed
func (d DaySummary) Perfect() bool {
	return d.Total > 0 && d.Completed == d.Total
}

// Context is the immutable snapshot of one child's metrics as of a given
// evaluation moment. Two builds over identical summaries and the same
// instant produce identical values
type Context struct {
	ChildID string `json:"child_id"`
	AsOfDay string `json:"as_of_day"`

	TodayTotal     int     `json:"today_total"`
	TodayCompleted int     `json:"today_completed"`
	TodayRate      float64 `json:"today_rate"`

	// Streak counts consecutive trailing perfect days. An in-progress
	// today is skipped, not counted against; once today itself is perfect
	// it is included
	Streak int `json:"streak"`

	TotalCompleted   int `json:"total_completed"`
	TotalPerfectDays int `json:"total_perfect_days"`
	TotalActiveDays  int `json:"total_active_days"`

	WeekRate         float64 `json:"week_rate"`
	YesterdayRate    float64 `json:"yesterday_rate"`
	SiblingTodayRate float64 `json:"sibling_today_rate"`

	// TodayDayOfWeek is 0=Sunday..6=Saturday in KST
	TodayDayOfWeek int `json:"today_day_of_week"`
	// CurrentHourKST is the KST hour of day 0..23 at evaluation time
	CurrentHourKST int `json:"current_hour_kst"`
}
