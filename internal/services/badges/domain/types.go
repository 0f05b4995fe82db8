// Package domain defines the badges service types and ports
package domain

import (
	"encoding/json"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/badgepack"
)

// Record is one durable earned-badge fact. Records are append-only:
// never updated, never deleted.
//
// RepeatKey disambiguates repeatable awards: "" for a non-repeatable
// badge (at most one record ever) and the KST day key for a repeatable
// one (at most one record per day). The storage unique index over
// (child_id, badge_id, repeat_key) is the authoritative race guard
type Record struct {
	ID        string          `json:"id"`
	ChildID   string          `json:"child_id"`
	BadgeID   string          `json:"badge_id"`
	RepeatKey string          `json:"-"`
	EarnedAt  time.Time       `json:"earned_at"`
	Context   json.RawMessage `json:"context,omitempty"`
}

// Earned is one badge a child holds, with its derived earned count
type Earned struct {
	BadgeID       string             `json:"badge_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Emoji         string             `json:"emoji"`
	Grade         badgepack.Grade    `json:"grade"`
	Category      badgepack.Category `json:"category"`
	Repeatable    bool               `json:"repeatable"`
	EarnedCount   int                `json:"earned_count"`
	FirstEarnedAt time.Time          `json:"first_earned_at"`
	LastEarnedAt  time.Time          `json:"last_earned_at"`
}

// CatalogEntry is one catalog badge as presented to a child.
// Hidden badges keep their name, description, and emoji masked until
// earned; hiding never affects award eligibility
type CatalogEntry struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Hint        string             `json:"hint"`
	Emoji       string             `json:"emoji"`
	Grade       badgepack.Grade    `json:"grade"`
	Category    badgepack.Category `json:"category"`
	Repeatable  bool               `json:"repeatable"`
	Hidden      bool               `json:"hidden"`
	Earned      bool               `json:"earned"`
	EarnedCount int                `json:"earned_count"`
}
