package learning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Antagata/Month-recap-AVU/internal/db"
	"github.com/Antagata/Month-recap-AVU/internal/resilience"
)

// PostgresStore implements Store over a shared Postgres database, for
// deployments where several operators feed the same learning history.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres connects a PostgresStore and runs its migration.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "learning: postgres connect")
	}
	ping := func(ctx context.Context) error { return pool.Ping(ctx) }
	if err := resilience.Do(ctx, resilience.DefaultRetryConfig(), ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "learning: postgres ping")
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresFromPool wraps an existing pool, mainly for tests.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS learning_records (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	vintage    TEXT NOT NULL,
	item_id    BIGINT NOT NULL,
	origin     TEXT NOT NULL DEFAULT 'auto',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (name, vintage, item_id)
);

CREATE INDEX IF NOT EXISTS idx_learning_key ON learning_records(name, vintage);
`

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "learning: postgres migrate")
}

func (s *PostgresStore) Lookup(ctx context.Context, key Key) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT item_id, origin, created_at FROM learning_records
		 WHERE name = $1 AND vintage = $2
		 ORDER BY (origin = $3) DESC, created_at DESC, id DESC
		 LIMIT 1`,
		key.Name, key.Vintage.String(), string(OriginManualCorrection),
	)

	var (
		itemID    int64
		origin    string
		createdAt time.Time
	)
	err := row.Scan(&itemID, &origin, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "learning: postgres lookup")
	}
	return &Record{Key: key, ItemID: itemID, Timestamp: createdAt, Origin: Origin(origin)}, nil
}

func (s *PostgresStore) Record(ctx context.Context, key Key, itemID int64, origin Origin) (PutOutcome, error) {
	outcome := Stored
	if origin == OriginManualCorrection {
		prev, err := s.Lookup(ctx, key)
		if err != nil {
			return Stored, err
		}
		if prev != nil && prev.ItemID != itemID {
			outcome = Corrected
		}
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO learning_records (id, name, vintage, item_id, origin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name, vintage, item_id) DO NOTHING`,
		uuid.New().String(), key.Name, key.Vintage.String(), itemID, string(origin), time.Now().UTC(),
	)
	if err != nil {
		return Stored, eris.Wrap(err, "learning: postgres record")
	}
	if tag.RowsAffected() == 0 {
		return DuplicateSkipped, nil
	}
	return outcome, nil
}

func (s *PostgresStore) Flush(context.Context) error { return nil }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
