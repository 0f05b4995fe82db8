// Package badgepack loads and compiles the badge catalog from the embedded
// badges.json. Conditions are a tagged-variant representation (kind plus
// params) compiled once at load into pure predicates over a metrics Context
package badgepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/em3s/mungchi-sub001/internal/core/metrics"
)

//go:embed badges.json
var embedded []byte

// Grade is the badge rarity tier
type Grade string

// Grade values
const (
	GradeCommon    Grade = "common"
	GradeRare      Grade = "rare"
	GradeEpic      Grade = "epic"
	GradeLegendary Grade = "legendary"
)

// Category groups badges for presentation
type Category string

// Category values
const (
	CategoryDaily     Category = "daily"
	CategoryStreak    Category = "streak"
	CategoryMilestone Category = "milestone"
	CategoryWeekly    Category = "weekly"
	CategorySpecial   Category = "special"
)

// Condition is the serialized rule shape: a kind tag plus numeric params.
// Keeping rules as data instead of code means the catalog can be reviewed,
// diffed, and ported without touching the engine
type Condition struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

type rawBadge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Hint        string    `json:"hint"`
	Emoji       string    `json:"emoji"`
	Grade       Grade     `json:"grade"`
	Category    Category  `json:"category"`
	Repeatable  bool      `json:"repeatable"`
	Hidden      bool      `json:"hidden,omitempty"`
	Condition   Condition `json:"condition"`
}

type rawPack struct {
	Version int        `json:"version"`
	Badges  []rawBadge `json:"badges"`
}

// Predicate is a compiled badge condition. Predicates are pure and total:
// no side effects, no failure path over any context the builder can produce
type Predicate func(metrics.Context) bool

// Badge is one compiled catalog entry, immutable after load
type Badge struct {
	ID          string
	Name        string
	Description string
	Hint        string
	Emoji       string
	Grade       Grade
	Category    Category
	Repeatable  bool
	Hidden      bool
	Condition   Condition
	Eval        Predicate
}

// Pack is the compiled catalog. Badges are ordered ascending by ID so
// evaluation order is reproducible regardless of file order
type Pack struct {
	Version int
	Badges  []Badge
	byID    map[string]Badge
}

// Load parses and compiles the embedded catalog
func Load() (*Pack, error) {
	return LoadBytes(embedded)
}

// MustLoad is Load for process startup
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// LoadBytes parses and compiles a catalog from raw JSON.
// Split out so tests can feed small fixture packs
func LoadBytes(b []byte) (*Pack, error) {
	var raw rawPack
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("badgepack: parse: %w", err)
	}
	if len(raw.Badges) == 0 {
		return nil, fmt.Errorf("badgepack: empty catalog")
	}

	p := &Pack{
		Version: raw.Version,
		Badges:  make([]Badge, 0, len(raw.Badges)),
		byID:    make(map[string]Badge, len(raw.Badges)),
	}
	for _, rb := range raw.Badges {
		b, err := compile(rb)
		if err != nil {
			return nil, err
		}
		if _, dup := p.byID[b.ID]; dup {
			return nil, fmt.Errorf("badgepack: duplicate badge id %q", b.ID)
		}
		p.byID[b.ID] = b
		p.Badges = append(p.Badges, b)
	}
	sort.Slice(p.Badges, func(i, j int) bool { return p.Badges[i].ID < p.Badges[j].ID })
	return p, nil
}

// Get returns a badge by id
func (p *Pack) Get(id string) (Badge, bool) {
	b, ok := p.byID[id]
	return b, ok
}

// Len returns the catalog size
func (p *Pack) Len() int { return len(p.Badges) }

func compile(rb rawBadge) (Badge, error) {
	if rb.ID == "" {
		return Badge{}, fmt.Errorf("badgepack: badge with empty id")
	}
	if rb.Name == "" {
		return Badge{}, fmt.Errorf("badgepack: badge %q missing name", rb.ID)
	}
	switch rb.Grade {
	case GradeCommon, GradeRare, GradeEpic, GradeLegendary:
	default:
		return Badge{}, fmt.Errorf("badgepack: badge %q has unknown grade %q", rb.ID, rb.Grade)
	}
	switch rb.Category {
	case CategoryDaily, CategoryStreak, CategoryMilestone, CategoryWeekly, CategorySpecial:
	default:
		return Badge{}, fmt.Errorf("badgepack: badge %q has unknown category %q", rb.ID, rb.Category)
	}

	eval, err := compileCondition(rb.ID, rb.Condition)
	if err != nil {
		return Badge{}, err
	}
	return Badge{
		ID:          rb.ID,
		Name:        rb.Name,
		Description: rb.Description,
		Hint:        rb.Hint,
		Emoji:       rb.Emoji,
		Grade:       rb.Grade,
		Category:    rb.Category,
		Repeatable:  rb.Repeatable,
		Hidden:      rb.Hidden,
		Condition:   rb.Condition,
		Eval:        eval,
	}, nil
}

// param fetches a named param or errors, so a typo in badges.json fails
// at startup instead of silently evaluating against zero
func param(id, kind string, c Condition, name string) (float64, error) {
	v, ok := c.Params[name]
	if !ok {
		return 0, fmt.Errorf("badgepack: badge %q condition %q missing param %q", id, kind, name)
	}
	return v, nil
}

func compileCondition(id string, c Condition) (Predicate, error) {
	switch c.Kind {
	case "today_perfect":
		return func(m metrics.Context) bool {
			return m.TodayTotal > 0 && m.TodayCompleted == m.TodayTotal
		}, nil

	case "streak_at_least":
		days, err := param(id, c.Kind, c, "days")
		if err != nil {
			return nil, err
		}
		n := int(days)
		return func(m metrics.Context) bool { return m.Streak >= n }, nil

	case "total_completed_at_least":
		count, err := param(id, c.Kind, c, "count")
		if err != nil {
			return nil, err
		}
		n := int(count)
		return func(m metrics.Context) bool { return m.TotalCompleted >= n }, nil

	case "perfect_days_at_least":
		count, err := param(id, c.Kind, c, "count")
		if err != nil {
			return nil, err
		}
		n := int(count)
		return func(m metrics.Context) bool { return m.TotalPerfectDays >= n }, nil

	case "active_days_at_least":
		count, err := param(id, c.Kind, c, "count")
		if err != nil {
			return nil, err
		}
		n := int(count)
		return func(m metrics.Context) bool { return m.TotalActiveDays >= n }, nil

	case "week_rate_at_least":
		rate, err := param(id, c.Kind, c, "rate")
		if err != nil {
			return nil, err
		}
		return func(m metrics.Context) bool { return m.WeekRate >= rate }, nil

	case "beat_sibling":
		return func(m metrics.Context) bool {
			return m.TodayRate > m.SiblingTodayRate
		}, nil

	case "perfect_on_weekday":
		day, err := param(id, c.Kind, c, "day")
		if err != nil {
			return nil, err
		}
		d := int(day)
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("badgepack: badge %q weekday %d out of range", id, d)
		}
		return func(m metrics.Context) bool {
			return m.TodayDayOfWeek == d && m.TodayTotal > 0 && m.TodayCompleted == m.TodayTotal
		}, nil

	case "perfect_before_hour":
		hour, err := param(id, c.Kind, c, "hour")
		if err != nil {
			return nil, err
		}
		h := int(hour)
		return func(m metrics.Context) bool {
			return m.CurrentHourKST < h && m.TodayTotal > 0 && m.TodayCompleted == m.TodayTotal
		}, nil

	case "complete_after_hour":
		hour, err := param(id, c.Kind, c, "hour")
		if err != nil {
			return nil, err
		}
		h := int(hour)
		return func(m metrics.Context) bool {
			return m.CurrentHourKST >= h && m.TodayCompleted > 0
		}, nil

	default:
		return nil, fmt.Errorf("badgepack: badge %q has unknown condition kind %q", id, c.Kind)
	}
}
