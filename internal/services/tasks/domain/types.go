// Package domain defines the tasks service types and ports
package domain

import "time"

// Task is one per-day task row for one child.
// Date is the KST civil date key; TitleNorm is the normalized title used
// for the per-day uniqueness constraint
type Task struct {
	ID          string     `json:"id"`
	ChildID     string     `json:"child_id"`
	Date        string     `json:"date"`
	Title       string     `json:"title"`
	TitleNorm   string     `json:"-"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateInput is the payload for creating a task
type CreateInput struct {
	// Date defaults to today (KST) when empty
	Date  string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Title string `json:"title" validate:"required,max=120"`
}

// UpdateInput is the payload for renaming a task
type UpdateInput struct {
	Title string `json:"title" validate:"required,max=120"`
}
