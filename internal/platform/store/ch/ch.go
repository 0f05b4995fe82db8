// Package ch provides the clickhouse telemetry client seam.
// Evaluation telemetry is append-only and advisory; the Postgres badge
// record store stays the source of truth for awards
package ch

import (
	"context"
	"errors"
)

// Config configures the clickhouse client
type Config struct {
	URL        string
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH is the clickhouse connectivity seam
type CH struct {
	cfg Config
}

// Open returns a clickhouse client for the configured endpoint
func Open(_ context.Context, cfg Config) (*CH, error) {
	return &CH{cfg: cfg}, nil
}

// Insert inserts rows into a table using the driver specific format
func (c *CH) Insert(_ context.Context, _ string, _ any) error {
	return errors.New("ch insert not implemented")
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(_ context.Context, _ string, _ ...any) (Rows, error) {
	return &emptyRows{}, nil
}

// Close closes resources
func (c *CH) Close() error { return nil }

// emptyRows is a stub that returns no results
type emptyRows struct{}

func (*emptyRows) Next() bool             { return false }
func (*emptyRows) Scan(dest ...any) error { return nil }
func (*emptyRows) Err() error             { return nil }
func (*emptyRows) Close() error           { return nil }
func (*emptyRows) Columns() []string      { return nil }
