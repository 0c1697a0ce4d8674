package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/internal/domain/model"
)

// sqlDialect holds the statements for one SQL backend. SQLite keeps the
// timestamp as epoch milliseconds, PostgreSQL as TIMESTAMPTZ.
type sqlDialect struct {
	backend    storage.Backend
	insert     string
	top        string
	count      string
	millisTime bool
}

var (
	sqliteDialect = sqlDialect{ //nolint:gochecknoglobals // immutable statement set
		backend:    storage.BackendSQLite,
		insert:     `INSERT INTO leaderboard (name, score, "timestamp") VALUES (?, ?, ?)`,
		top:        `SELECT name, score, "timestamp" FROM leaderboard ORDER BY score DESC LIMIT ?`,
		count:      `SELECT COUNT(*) FROM leaderboard`,
		millisTime: true,
	}
	postgresDialect = sqlDialect{ //nolint:gochecknoglobals // immutable statement set
		backend: storage.BackendPostgres,
		insert:  `INSERT INTO leaderboard (name, score, "timestamp") VALUES ($1, $2, $3)`,
		top:     `SELECT name, score, "timestamp" FROM leaderboard ORDER BY score DESC LIMIT $1`,
		count:   `SELECT COUNT(*) FROM leaderboard`,
	}
)

// SQLStore persists records in a SQL database reached through a Connector.
type SQLStore struct {
	conn    *storage.Connector[*sql.DB]
	dialect sqlDialect
}

// NewSQLStore builds a store for the sqlite or postgres backend.
func NewSQLStore(backend storage.Backend, conn *storage.Connector[*sql.DB]) (*SQLStore, error) {
	switch backend {
	case storage.BackendSQLite:
		return &SQLStore{conn: conn, dialect: sqliteDialect}, nil
	case storage.BackendPostgres:
		return &SQLStore{conn: conn, dialect: postgresDialect}, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a sql backend", storage.ErrUnsupportedScheme, backend)
	}
}

// Backend implements Store.
func (s *SQLStore) Backend() string { return string(s.dialect.backend) }

// Insert implements Store.
func (s *SQLStore) Insert(ctx context.Context, rec model.ScoreRecord) error {
	db, err := s.conn.Get(ctx)
	if err != nil {
		return err
	}
	var ts any = rec.Timestamp
	if s.dialect.millisTime {
		ts = rec.TimestampMillis()
	}
	if _, err := db.ExecContext(ctx, s.dialect.insert, rec.Name, rec.Score, ts); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Top implements Store.
func (s *SQLStore) Top(ctx context.Context, n int) ([]model.ScoreRecord, error) {
	db, err := s.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, s.dialect.top, n)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.ScoreRecord, 0)
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard rows: %w", err)
	}
	return records, nil
}

func (s *SQLStore) scan(rows *sql.Rows) (model.ScoreRecord, error) {
	var rec model.ScoreRecord
	if s.dialect.millisTime {
		var ms int64
		if err := rows.Scan(&rec.Name, &rec.Score, &ms); err != nil {
			return rec, fmt.Errorf("scan leaderboard row: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ms).UTC()
		return rec, nil
	}
	var ts time.Time
	if err := rows.Scan(&rec.Name, &rec.Score, &ts); err != nil {
		return rec, fmt.Errorf("scan leaderboard row: %w", err)
	}
	rec.Timestamp = ts.UTC()
	return rec, nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	db, err := s.conn.Get(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, s.dialect.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return n, nil
}

// Ready implements Store.
func (s *SQLStore) Ready() bool { return s.conn.Ready() }

// Close implements Store.
func (s *SQLStore) Close(ctx context.Context) error { return s.conn.Close(ctx) }
