package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/badgepack"
	"github.com/em3s/mungchi-sub001/internal/core/metrics"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	dom "github.com/em3s/mungchi-sub001/internal/services/badges/domain"
	"github.com/em3s/mungchi-sub001/internal/services/badges/repo"
	childdom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	tasksvc "github.com/em3s/mungchi-sub001/internal/services/tasks/service"
)

// 2026-03-18 is a Wednesday; 20:30 KST
var testNow = time.Date(2026, 3, 18, 20, 30, 0, 0, clock.KST)

const testPack = `{"version": 1, "badges": [
	{"id": "m-first", "name": "first", "emoji": "a", "grade": "common", "category": "milestone",
		"condition": {"kind": "total_completed_at_least", "params": {"count": 1}}},
	{"id": "p-day", "name": "perfect day", "emoji": "b", "grade": "common", "category": "daily",
		"repeatable": true,
		"condition": {"kind": "today_perfect"}},
	{"id": "s-duel", "name": "duel", "emoji": "c", "grade": "rare", "category": "special",
		"repeatable": true, "hidden": true,
		"condition": {"kind": "beat_sibling"}},
	{"id": "z-streak3", "name": "streak", "emoji": "d", "grade": "rare", "category": "streak",
		"condition": {"kind": "streak_at_least", "params": {"days": 3}}}
]}`

func mustPack(t *testing.T) *badgepack.Pack {
	t.Helper()
	p, err := badgepack.LoadBytes([]byte(testPack))
	if err != nil {
		t.Fatalf("load fixture pack: %v", err)
	}
	return p
}

// fakeRepo is an in-memory badges repo whose Insert enforces the same
// uniqueness the storage index would
type fakeRepo struct {
	mu      sync.Mutex
	records map[string]dom.Record

	// raceOnInsert makes Exists lie so Insert sees the duplicate
	raceOnInsert bool

	events    []repo.TaskEvent
	completed []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]dom.Record)}
}

func awardKey(childID, badgeID, repeatKey string) string {
	return childID + "|" + badgeID + "|" + repeatKey
}

func (f *fakeRepo) Exists(_ context.Context, childID, badgeID, repeatKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.raceOnInsert {
		return false, nil
	}
	_, ok := f.records[awardKey(childID, badgeID, repeatKey)]
	return ok, nil
}

func (f *fakeRepo) Insert(_ context.Context, rec dom.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := awardKey(rec.ChildID, rec.BadgeID, rec.RepeatKey)
	if _, ok := f.records[k]; ok {
		return perr.DuplicateKeyf("insert award %s for %s", rec.BadgeID, rec.ChildID)
	}
	f.records[k] = rec
	return nil
}

func (f *fakeRepo) EarnedSummary(_ context.Context, childID string) ([]repo.EarnedRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agg := make(map[string]*repo.EarnedRow)
	var order []string
	for _, rec := range f.records {
		if rec.ChildID != childID {
			continue
		}
		row, ok := agg[rec.BadgeID]
		if !ok {
			row = &repo.EarnedRow{BadgeID: rec.BadgeID, FirstEarnedAt: rec.EarnedAt, LastEarnedAt: rec.EarnedAt}
			agg[rec.BadgeID] = row
			order = append(order, rec.BadgeID)
		}
		row.EarnedCount++
		if rec.EarnedAt.Before(row.FirstEarnedAt) {
			row.FirstEarnedAt = rec.EarnedAt
		}
		if rec.EarnedAt.After(row.LastEarnedAt) {
			row.LastEarnedAt = rec.EarnedAt
		}
	}
	out := make([]repo.EarnedRow, 0, len(order))
	for _, id := range order {
		out = append(out, *agg[id])
	}
	return out, nil
}

func (f *fakeRepo) LeaseEvents(_ context.Context, _ string, limit int, _ time.Duration) ([]repo.TaskEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	done := make(map[int64]bool, len(f.completed))
	for _, id := range f.completed {
		done[id] = true
	}
	var out []repo.TaskEvent
	for _, ev := range f.events {
		if done[ev.ID] {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) CompleteEvents(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, ids...)
	return nil
}

func (f *fakeRepo) count(childID, badgeID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rec := range f.records {
		if rec.ChildID == childID && rec.BadgeID == badgeID {
			n++
		}
	}
	return n
}

// fakeSummaries serves canned day summaries per child
type fakeSummaries struct {
	mu     sync.Mutex
	days   map[string][]metrics.DaySummary
	errFor map[string]error
	calls  int
}

func (f *fakeSummaries) Summaries(_ context.Context, childID, fromDay, toDay string) ([]metrics.DaySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errFor[childID]; err != nil {
		return nil, err
	}
	var out []metrics.DaySummary
	for _, d := range f.days[childID] {
		if d.Date >= fromDay && d.Date <= toDay {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeChildren answers sibling lookups from a static pairing map
type fakeChildren struct {
	siblings map[string]string
}

func (f *fakeChildren) Get(_ context.Context, childID string) (childdom.Child, error) {
	return childdom.Child{ID: childID}, nil
}

func (f *fakeChildren) List(_ context.Context) ([]childdom.Child, error) { return nil, nil }

func (f *fakeChildren) SiblingOf(_ context.Context, childID string) (string, error) {
	return f.siblings[childID], nil
}

type fixture struct {
	svc  *Service
	repo *fakeRepo
	sums *fakeSummaries
	clk  *tickClock
}

type tickClock struct{ t time.Time }

func (c *tickClock) Now() time.Time { return c.t }

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()
	rep := newFakeRepo()
	sums := &fakeSummaries{days: make(map[string][]metrics.DaySummary), errFor: make(map[string]error)}
	kids := &fakeChildren{siblings: make(map[string]string)}
	clk := &tickClock{t: testNow}

	var c *cache.Cache
	if withCache {
		c = cache.New(clk)
	}
	svc := &Service{
		repo:     rep,
		pack:     mustPack(t),
		tasks:    sums,
		children: kids,
		policy:   DailyRepeat{},
		cache:    c,
		clk:      clk,
		cfg:      Config{ContextTTL: time.Minute},
	}
	return &fixture{svc: svc, repo: rep, sums: sums, clk: clk}
}

func perfectHistory(days ...string) []metrics.DaySummary {
	out := make([]metrics.DaySummary, 0, len(days))
	for _, d := range days {
		out = append(out, metrics.DaySummary{Date: d, Total: 2, Completed: 2})
	}
	return out
}

func badgeIDs(recs []dom.Record) []string {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.BadgeID)
	}
	return ids
}

func TestEvaluateAwardsInCatalogOrder(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-15", "2026-03-16", "2026-03-17", "2026-03-18")

	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := []string{"m-first", "p-day", "s-duel", "z-streak3"}
	got := badgeIDs(recs)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("awarded %v, want %v", got, want)
	}
	for _, rec := range recs {
		if rec.ID == "" || rec.ChildID != "c1" {
			t.Fatalf("malformed record: %+v", rec)
		}
		if len(rec.Context) == 0 {
			t.Fatalf("record %s missing context snapshot", rec.BadgeID)
		}
		if !rec.EarnedAt.Equal(testNow) {
			t.Fatalf("earned_at = %v", rec.EarnedAt)
		}
	}
}

func TestRepeatKeysPerPolicy(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-18")

	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	keys := make(map[string]string, len(recs))
	for _, r := range recs {
		keys[r.BadgeID] = r.RepeatKey
	}
	if keys["m-first"] != "" {
		t.Fatalf("non-repeatable repeat key = %q, want empty", keys["m-first"])
	}
	if keys["p-day"] != "2026-03-18" {
		t.Fatalf("repeatable repeat key = %q, want the day", keys["p-day"])
	}
}

func TestEvaluateIsIdempotentWithinDay(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-18")

	first, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("expected awards on first run")
	}
	second, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second run re-awarded %v", badgeIDs(second))
	}
}

func TestRepeatableReearnsNextDayNonRepeatableDoesNot(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-18", "2026-03-19")

	if _, err := f.svc.Evaluate(context.Background(), "c1"); err != nil {
		t.Fatalf("day one: %v", err)
	}
	f.clk.t = testNow.AddDate(0, 0, 1)

	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	got := badgeIDs(recs)
	for _, id := range got {
		if id == "m-first" {
			t.Fatalf("non-repeatable re-awarded: %v", got)
		}
	}
	if f.repo.count("c1", "p-day") != 2 {
		t.Fatalf("repeatable should have two records, have %d", f.repo.count("c1", "p-day"))
	}
	if f.repo.count("c1", "m-first") != 1 {
		t.Fatalf("non-repeatable should have one record, have %d", f.repo.count("c1", "m-first"))
	}
}

func TestLostInsertRaceIsAlreadyEarned(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-18")

	if _, err := f.svc.Evaluate(context.Background(), "c1"); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	// Exists now reports false while the rows are still there, so every
	// insert loses against the unique index
	f.repo.raceOnInsert = true
	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("raced run should not fail: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("raced run claimed awards %v", badgeIDs(recs))
	}
}

func TestFaultyRuleNeverBlocksTheRest(t *testing.T) {
	f := newFixture(t, false)
	f.sums.days["c1"] = perfectHistory("2026-03-18")

	// break the first badge in evaluation order
	if f.svc.pack.Badges[0].ID != "m-first" {
		t.Fatalf("fixture order changed")
	}
	f.svc.pack.Badges[0].Eval = func(metrics.Context) bool { panic("boom") }

	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got := badgeIDs(recs)
	for _, id := range got {
		if id == "m-first" {
			t.Fatalf("faulting badge was awarded")
		}
	}
	if len(got) == 0 {
		t.Fatalf("later badges were blocked by the fault")
	}
}

func TestSiblingDuel(t *testing.T) {
	f := newFixture(t, false)
	f.svc.children.(*fakeChildren).siblings["c1"] = "c2"

	// c1 finished everything, c2 did nothing today
	f.sums.days["c1"] = perfectHistory("2026-03-18")
	f.sums.days["c2"] = []metrics.DaySummary{{Date: "2026-03-18", Total: 2, Completed: 0}}

	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	found := false
	for _, id := range badgeIDs(recs) {
		if id == "s-duel" {
			found = true
		}
	}
	if !found {
		t.Fatalf("duel badge missing when sibling rate is 0: %v", badgeIDs(recs))
	}

	// the reverse direction loses the duel
	f.svc.children.(*fakeChildren).siblings["c2"] = "c1"
	recs2, err := f.svc.Evaluate(context.Background(), "c2")
	if err != nil {
		t.Fatalf("Evaluate sibling: %v", err)
	}
	for _, id := range badgeIDs(recs2) {
		if id == "s-duel" {
			t.Fatalf("losing sibling earned the duel badge")
		}
	}
}

func TestUnavailableSummariesFailEvaluation(t *testing.T) {
	f := newFixture(t, true)
	f.sums.errFor["c1"] = perr.Unavailablef("task store unavailable for c1")

	_, err := f.svc.Evaluate(context.Background(), "c1")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(f.repo.records) != 0 {
		t.Fatalf("awards persisted despite unavailable inputs")
	}

	// the failure must not be cached
	delete(f.sums.errFor, "c1")
	f.sums.days["c1"] = perfectHistory("2026-03-18")
	recs, err := f.svc.Evaluate(context.Background(), "c1")
	if err != nil {
		t.Fatalf("recovered Evaluate: %v", err)
	}
	if len(recs) == 0 {
		t.Fatalf("expected awards after the store recovered")
	}
}

func TestContextIsCachedUntilInvalidated(t *testing.T) {
	f := newFixture(t, true)
	f.sums.days["c1"] = perfectHistory("2026-03-18")

	if _, err := f.svc.Context(context.Background(), "c1"); err != nil {
		t.Fatalf("Context: %v", err)
	}
	before := f.sums.calls
	if _, err := f.svc.Context(context.Background(), "c1"); err != nil {
		t.Fatalf("Context: %v", err)
	}
	if f.sums.calls != before {
		t.Fatalf("cached snapshot re-aggregated")
	}

	f.svc.cache.Invalidate(tasksvc.CacheKey("c1"))
	if _, err := f.svc.Context(context.Background(), "c1"); err != nil {
		t.Fatalf("Context: %v", err)
	}
	if f.sums.calls == before {
		t.Fatalf("invalidation did not force a rebuild")
	}
}

func TestEarnedKeepsRetiredBadges(t *testing.T) {
	f := newFixture(t, false)
	f.repo.records[awardKey("c1", "m-first", "")] = dom.Record{
		ID: "r1", ChildID: "c1", BadgeID: "m-first", EarnedAt: testNow,
	}
	f.repo.records[awardKey("c1", "gone-badge", "")] = dom.Record{
		ID: "r2", ChildID: "c1", BadgeID: "gone-badge", EarnedAt: testNow,
	}

	earned, err := f.svc.Earned(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Earned: %v", err)
	}
	byID := make(map[string]dom.Earned, len(earned))
	for _, e := range earned {
		byID[e.BadgeID] = e
	}
	if byID["m-first"].Name == "" {
		t.Fatalf("catalog badge lost its name")
	}
	got, ok := byID["gone-badge"]
	if !ok {
		t.Fatalf("retired badge dropped from earned list")
	}
	if got.Name != "" {
		t.Fatalf("retired badge invented a name: %q", got.Name)
	}
}

func TestCatalogMasksHiddenUntilEarned(t *testing.T) {
	f := newFixture(t, false)

	entry := func(t *testing.T, id string) dom.CatalogEntry {
		t.Helper()
		cat, err := f.svc.Catalog(context.Background(), "c1")
		if err != nil {
			t.Fatalf("Catalog: %v", err)
		}
		for _, e := range cat {
			if e.ID == id {
				return e
			}
		}
		t.Fatalf("badge %q missing from catalog", id)
		return dom.CatalogEntry{}
	}

	masked := entry(t, "s-duel")
	if !masked.Hidden || masked.Earned {
		t.Fatalf("fixture should start hidden and unearned: %+v", masked)
	}
	if masked.Name != maskedText || masked.Description != maskedText {
		t.Fatalf("hidden badge not masked: %+v", masked)
	}

	f.repo.records[awardKey("c1", "s-duel", "2026-03-18")] = dom.Record{
		ID: "r1", ChildID: "c1", BadgeID: "s-duel", RepeatKey: "2026-03-18", EarnedAt: testNow,
	}
	revealed := entry(t, "s-duel")
	if !revealed.Earned || revealed.EarnedCount != 1 {
		t.Fatalf("earned state missing: %+v", revealed)
	}
	if revealed.Name == maskedText {
		t.Fatalf("earned hidden badge still masked")
	}

	// visible badges are never masked
	plain := entry(t, "m-first")
	if plain.Name == maskedText {
		t.Fatalf("visible badge masked: %+v", plain)
	}
}
