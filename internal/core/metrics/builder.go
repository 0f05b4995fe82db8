package metrics

import (
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
)

// weekWindow is the trailing day count for WeekRate, today inclusive
const weekWindow = 7

// Build folds a child's day summaries into a Context snapshot taken at now.
// siblingToday may be nil when the child has no paired sibling or the
// sibling has no data today.
//
// Summaries may arrive in any order and may omit empty days; absence and
// total=0 are treated identically. Build fails only on malformed input
// (negative counts, completed > total, duplicate dates), which indicates an
// aggregator bug and must not reach the rules
func Build(childID string, summaries []DaySummary, siblingToday *DaySummary, now time.Time) (Context, error) {
	byDay := make(map[string]DaySummary, len(summaries))
	for _, s := range summaries {
		if err := validate(s); err != nil {
			return Context{}, err
		}
		if _, dup := byDay[s.Date]; dup {
			return Context{}, perr.Validationf("duplicate day summary for %s", s.Date)
		}
		byDay[s.Date] = s
	}
	if siblingToday != nil {
		if err := validate(*siblingToday); err != nil {
			return Context{}, err
		}
	}

	todayKey := clock.DayKey(now)
	today := byDay[todayKey]

	ctx := Context{
		ChildID:        childID,
		AsOfDay:        todayKey,
		TodayTotal:     today.Total,
		TodayCompleted: today.Completed,
		TodayRate:      today.Rate(),
		TodayDayOfWeek: clock.WeekdayOf(now),
		CurrentHourKST: clock.HourOf(now),
	}

	// lifetime accumulators, one pass
	for _, s := range byDay {
		ctx.TotalCompleted += s.Completed
		if s.Total > 0 {
			ctx.TotalActiveDays++
		}
		if s.Perfect() {
			ctx.TotalPerfectDays++
		}
	}

	ctx.Streak = streak(byDay, now)
	ctx.WeekRate = weekRate(byDay, now)

	yesterdayKey := clock.DayKey(clock.AddDays(now, -1))
	ctx.YesterdayRate = byDay[yesterdayKey].Rate()

	if siblingToday != nil && siblingToday.Date == todayKey {
		ctx.SiblingTodayRate = siblingToday.Rate()
	}

	return ctx, nil
}

// streak walks backward day by day counting perfect days. The walk starts
// at today when today is already perfect, otherwise at yesterday, so an
// unfinished today never resets an intact run
func streak(byDay map[string]DaySummary, now time.Time) int {
	start := clock.DayStart(now)
	if !byDay[clock.DayKey(now)].Perfect() {
		start = clock.AddDays(now, -1)
	}
	n := 0
	for d := start; ; d = d.AddDate(0, 0, -1) {
		if !byDay[clock.DayKey(d)].Perfect() {
			break
		}
		n++
	}
	return n
}

// weekRate averages the daily rate over the trailing window ending today.
// Missing days count as 0
func weekRate(byDay map[string]DaySummary, now time.Time) float64 {
	var sum float64
	for i := 0; i < weekWindow; i++ {
		sum += byDay[clock.DayKey(clock.AddDays(now, -i))].Rate()
	}
	return sum / weekWindow
}

func validate(s DaySummary) error {
	switch {
	case s.Date == "":
		return perr.Validationf("day summary missing date")
	case s.Total < 0 || s.Completed < 0:
		return perr.Validationf("day summary %s has negative counts", s.Date)
	case s.Completed > s.Total:
		return perr.Validationf("day summary %s has completed %d > total %d", s.Date, s.Completed, s.Total)
	}
	return nil
}
