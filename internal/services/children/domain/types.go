// Package domain defines the children service types and ports
package domain

import "time"

// Child is one registered child profile. Sibling pairing is symmetric:
// when A's SiblingID points at B, B's points back at A
type Child struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji,omitempty"`
	SiblingID *string   `json:"sibling_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
