// Package repo provides the children repository implementation
package repo

import (
	"context"

	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	"github.com/em3s/mungchi-sub001/internal/services/children/domain"
)

// Repo is the children persistence surface used by the service layer
type Repo interface {
	Get(ctx context.Context, childID string) (domain.Child, error)
	List(ctx context.Context) ([]domain.Child, error)
	SiblingOf(ctx context.Context, childID string) (string, error)
}

type (
	// PG is a Postgres implementation of the children repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const childCols = `id, name, emoji, sibling_id, created_at`

func scanChild(row interface{ Scan(...any) error }) (domain.Child, error) {
	var c domain.Child
	err := row.Scan(&c.ID, &c.Name, &c.Emoji, &c.SiblingID, &c.CreatedAt)
	return c, err
}

// Get returns one child by id
func (r *queries) Get(ctx context.Context, childID string) (domain.Child, error) {
	row := r.q.QueryRow(ctx, `SELECT `+childCols+` FROM children WHERE id = $1`, childID)
	c, err := scanChild(row)
	if err != nil {
		return domain.Child{}, perr.FromPostgresf(err, "get child %s", childID)
	}
	return c, nil
}

// List returns all children ordered by creation
func (r *queries) List(ctx context.Context) ([]domain.Child, error) {
	rows, err := r.q.Query(ctx, `SELECT `+childCols+` FROM children ORDER BY created_at, id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list children")
	}
	defer rows.Close()

	var out []domain.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan child")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SiblingOf returns the paired child's id, "" when unpaired
func (r *queries) SiblingOf(ctx context.Context, childID string) (string, error) {
	const sql = `SELECT COALESCE(sibling_id::text, '') FROM children WHERE id = $1`
	sib, err := repokit.Scalar[string](ctx, r.q, sql, childID)
	if err != nil {
		return "", perr.FromPostgresf(err, "sibling of %s", childID)
	}
	return sib, nil
}
