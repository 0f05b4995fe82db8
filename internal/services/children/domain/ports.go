package domain

import "context"

// QueryPort reads child profiles
type QueryPort interface {
	Get(ctx context.Context, childID string) (Child, error)
	List(ctx context.Context) ([]Child, error)
	// SiblingOf returns the paired child's id, or "" when unpaired
	SiblingOf(ctx context.Context, childID string) (string, error)
}
