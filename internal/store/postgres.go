package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jonathan/resume-pdf/internal/types"
)

// Postgres stores submissions in the submissions table created by the
// db package migrations.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open database handle. The caller owns the handle's
// underlying pool; Close only releases the handle.
func NewPostgres(db *sql.DB, opts ...Option) *Postgres {
	o := applyOptions(opts)
	return &Postgres{db: db, now: o.now}
}

func (p *Postgres) Insert(ctx context.Context, raw []byte, token, templateID string) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO submissions (json, token, template, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		string(raw), token, templateID, p.now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, unavailable("insert", err)
	}
	return id, nil
}

func (p *Postgres) Lookup(ctx context.Context, id int64) (*types.Submission, error) {
	var (
		sub types.Submission
		raw string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, json, token, template, created_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&sub.ID, &raw, &sub.Token, &sub.TemplateID, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, unavailable("lookup", err)
	}
	sub.RawJSON = []byte(raw)
	return &sub, nil
}

func (p *Postgres) Sweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := p.now().UTC().Add(-maxAge)
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, unavailable("sweep", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("sweep", err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
