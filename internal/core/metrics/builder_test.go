package metrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
)

// 2026-03-18 is a Wednesday
var wed = time.Date(2026, 3, 18, 20, 30, 0, 0, clock.KST)

func day(key string, total, completed int) DaySummary {
	return DaySummary{Date: key, Total: total, Completed: completed}
}

func mustBuild(t *testing.T, sums []DaySummary, sib *DaySummary, now time.Time) Context {
	t.Helper()
	ctx, err := Build("child-1", sums, sib, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ctx
}

func TestStreakSkipsInProgressToday(t *testing.T) {
	// three perfect days, today started but unfinished
	sums := []DaySummary{
		day("2026-03-15", 3, 3),
		day("2026-03-16", 2, 2),
		day("2026-03-17", 4, 4),
		day("2026-03-18", 3, 1),
	}
	ctx := mustBuild(t, sums, nil, wed)
	if ctx.Streak != 3 {
		t.Fatalf("streak = %d, want 3", ctx.Streak)
	}
	if ctx.TodayRate != 1.0/3.0 {
		t.Fatalf("today rate = %v", ctx.TodayRate)
	}
}

func TestStreakIncludesPerfectToday(t *testing.T) {
	sums := []DaySummary{
		day("2026-03-15", 3, 3),
		day("2026-03-16", 2, 2),
		day("2026-03-17", 4, 4),
		day("2026-03-18", 3, 3),
	}
	ctx := mustBuild(t, sums, nil, wed)
	if ctx.Streak != 4 {
		t.Fatalf("streak = %d, want 4", ctx.Streak)
	}
	if ctx.TodayRate != 1 {
		t.Fatalf("today rate = %v, want 1", ctx.TodayRate)
	}
}

func TestEmptyTodayIsRateZeroNotBroken(t *testing.T) {
	// no tasks assigned today; yesterday's run is still intact
	sums := []DaySummary{
		day("2026-03-16", 2, 2),
		day("2026-03-17", 4, 4),
	}
	ctx := mustBuild(t, sums, nil, wed)
	if ctx.TodayTotal != 0 || ctx.TodayRate != 0 {
		t.Fatalf("empty today should be zeroed, got total=%d rate=%v", ctx.TodayTotal, ctx.TodayRate)
	}
	if ctx.Streak != 2 {
		t.Fatalf("streak = %d, want 2", ctx.Streak)
	}
}

func TestStreakBrokenByImperfectDay(t *testing.T) {
	sums := []DaySummary{
		day("2026-03-15", 3, 3),
		day("2026-03-16", 2, 1),
		day("2026-03-17", 4, 4),
	}
	ctx := mustBuild(t, sums, nil, wed)
	if ctx.Streak != 1 {
		t.Fatalf("streak = %d, want 1", ctx.Streak)
	}
}

func TestWeekRateAveragesMissingDaysAsZero(t *testing.T) {
	// only two of the trailing seven days have data
	sums := []DaySummary{
		day("2026-03-18", 2, 2), // 1.0
		day("2026-03-14", 4, 2), // 0.5
	}
	ctx := mustBuild(t, sums, nil, wed)
	want := 1.5 / 7
	if diff := ctx.WeekRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("week rate = %v, want %v", ctx.WeekRate, want)
	}
	// 2026-03-11 falls outside the window
	sums = append(sums, day("2026-03-11", 1, 1))
	ctx2 := mustBuild(t, sums, nil, wed)
	if ctx2.WeekRate != ctx.WeekRate {
		t.Fatalf("out-of-window day changed week rate")
	}
}

func TestLifetimeAccumulators(t *testing.T) {
	sums := []DaySummary{
		day("2026-01-01", 3, 3),
		day("2026-01-02", 3, 1),
		day("2026-01-05", 0, 0),
		day("2026-03-18", 2, 2),
	}
	ctx := mustBuild(t, sums, nil, wed)
	if ctx.TotalCompleted != 6 {
		t.Fatalf("total completed = %d, want 6", ctx.TotalCompleted)
	}
	if ctx.TotalActiveDays != 3 {
		t.Fatalf("active days = %d, want 3 (empty day is not active)", ctx.TotalActiveDays)
	}
	if ctx.TotalPerfectDays != 2 {
		t.Fatalf("perfect days = %d, want 2", ctx.TotalPerfectDays)
	}
}

func TestYesterdayAndSiblingRates(t *testing.T) {
	sums := []DaySummary{
		day("2026-03-17", 4, 3),
		day("2026-03-18", 2, 2),
	}
	sib := day("2026-03-18", 5, 1)
	ctx := mustBuild(t, sums, &sib, wed)
	if ctx.YesterdayRate != 0.75 {
		t.Fatalf("yesterday rate = %v", ctx.YesterdayRate)
	}
	if ctx.SiblingTodayRate != 0.2 {
		t.Fatalf("sibling rate = %v", ctx.SiblingTodayRate)
	}

	// a sibling summary for another day is ignored
	stale := day("2026-03-17", 5, 5)
	ctx2 := mustBuild(t, sums, &stale, wed)
	if ctx2.SiblingTodayRate != 0 {
		t.Fatalf("stale sibling summary leaked: %v", ctx2.SiblingTodayRate)
	}
}

func TestCalendarFields(t *testing.T) {
	ctx := mustBuild(t, nil, nil, wed)
	if ctx.AsOfDay != "2026-03-18" {
		t.Fatalf("as_of_day = %q", ctx.AsOfDay)
	}
	if ctx.TodayDayOfWeek != 3 {
		t.Fatalf("day of week = %d, want 3 (Wednesday)", ctx.TodayDayOfWeek)
	}
	if ctx.CurrentHourKST != 20 {
		t.Fatalf("hour = %d, want 20", ctx.CurrentHourKST)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	sums := []DaySummary{
		day("2026-03-12", 3, 2),
		day("2026-03-15", 1, 1),
		day("2026-03-18", 2, 1),
	}
	a := mustBuild(t, sums, nil, wed)
	// reversed input order must not matter
	rev := []DaySummary{sums[2], sums[1], sums[0]}
	b := mustBuild(t, rev, nil, wed)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("order-dependent build:\n%+v\n%+v", a, b)
	}
}

func TestBuildRejectsMalformedSummaries(t *testing.T) {
	cases := []struct {
		name string
		sums []DaySummary
	}{
		{"missing date", []DaySummary{day("", 1, 0)}},
		{"negative total", []DaySummary{day("2026-03-18", -1, 0)}},
		{"completed over total", []DaySummary{day("2026-03-18", 2, 3)}},
		{"duplicate date", []DaySummary{day("2026-03-18", 1, 0), day("2026-03-18", 2, 1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build("child-1", tc.sums, nil, wed)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("code = %v, want validation", perr.CodeOf(err))
			}
		})
	}
}

func TestBuildRejectsMalformedSibling(t *testing.T) {
	sib := day("2026-03-18", 1, 2)
	_, err := Build("child-1", nil, &sib, wed)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDaySummaryHelpers(t *testing.T) {
	if day("d", 0, 0).Rate() != 0 {
		t.Fatalf("rate of empty day should be 0")
	}
	if day("d", 0, 0).Perfect() {
		t.Fatalf("empty day must not count as perfect")
	}
	if !day("d", 2, 2).Perfect() {
		t.Fatalf("full day should be perfect")
	}
}
