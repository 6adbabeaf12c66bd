package learning

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. Each record is
// durable as soon as Record returns; Flush is a no-op.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite learning database at the given
// path, configured for WAL mode so readers never block on the writer.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "learning: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "learning: sqlite exec %s", pragma)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS learning_records (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	vintage    TEXT NOT NULL,
	item_id    INTEGER NOT NULL,
	origin     TEXT NOT NULL DEFAULT 'auto',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_learning_key_item
	ON learning_records(name, vintage, item_id);
CREATE INDEX IF NOT EXISTS idx_learning_key ON learning_records(name, vintage);
`

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "learning: sqlite migrate")
}

func (s *SQLiteStore) Lookup(ctx context.Context, key Key) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT item_id, origin, created_at FROM learning_records
		 WHERE name = ? AND vintage = ?
		 ORDER BY (origin = ?) DESC, created_at DESC, id DESC
		 LIMIT 1`,
		key.Name, key.Vintage.String(), string(OriginManualCorrection),
	)

	var (
		itemID    int64
		origin    string
		createdAt string
	)
	err := row.Scan(&itemID, &origin, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "learning: sqlite lookup")
	}
	rec := &Record{Key: key, ItemID: itemID, Origin: Origin(origin)}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.Timestamp = ts
	}
	return rec, nil
}

func (s *SQLiteStore) Record(ctx context.Context, key Key, itemID int64, origin Origin) (PutOutcome, error) {
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

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO learning_records (id, name, vintage, item_id, origin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), key.Name, key.Vintage.String(), itemID, string(origin),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Stored, eris.Wrap(err, "learning: sqlite record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Stored, eris.Wrap(err, "learning: sqlite rows affected")
	}
	if n == 0 {
		return DuplicateSkipped, nil
	}
	return outcome, nil
}

func (s *SQLiteStore) Flush(context.Context) error { return nil }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Count returns the number of stored records, for status reporting.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learning_records`).Scan(&n)
	return n, eris.Wrap(err, "learning: sqlite count")
}
