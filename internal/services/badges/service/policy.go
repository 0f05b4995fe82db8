package service

import (
	"github.com/em3s/mungchi-sub001/internal/core/badgepack"
	"github.com/em3s/mungchi-sub001/internal/core/metrics"
)

// RepeatPolicy decides how often a repeatable badge may be re-earned.
// RepeatKey returns the storage discriminator for this award slot and
// whether the badge is eligible this cycle. Non-repeatable badges always
// map to the empty key, so their unique index slot is "once, ever"
type RepeatPolicy interface {
	RepeatKey(b badgepack.Badge, m metrics.Context) (string, bool)
}

// DailyRepeat awards a repeatable badge at most once per KST calendar
// day, keyed by the context's as-of day
type DailyRepeat struct{}

// RepeatKey implements RepeatPolicy
func (DailyRepeat) RepeatKey(b badgepack.Badge, m metrics.Context) (string, bool) {
	if !b.Repeatable {
		return "", true
	}
	if m.AsOfDay == "" {
		return "", false
	}
	return m.AsOfDay, true
}
