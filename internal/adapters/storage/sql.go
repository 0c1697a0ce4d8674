package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/scoreboard/pkg/logger"
)

// Connection pool settings for SQL backends.
const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 2 * time.Minute
	sqliteBusyTimeoutMS    = 5000
)

//go:embed migrations
var migrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// OpenSQL returns an OpenFunc for the sqlite and postgres backends. The
// schema is brought up to date with the embedded goose migrations.
func OpenSQL(backend Backend, databaseURL string, log logger.Logger) OpenFunc[*sql.DB] {
	return func(ctx context.Context) (*sql.DB, error) {
		driver, dsn, dialect, err := sqlTarget(backend, databaseURL)
		if err != nil {
			return nil, err
		}

		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", backend, err)
		}
		configurePool(db, backend, dsn)

		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping %s: %w", backend, err)
		}
		if err := migrate(ctx, db, dialect, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}
}

// CloseSQL closes the pool.
func CloseSQL(_ context.Context, db *sql.DB) error {
	return db.Close()
}

func sqlTarget(backend Backend, databaseURL string) (driver, dsn, dialect string, err error) {
	switch backend {
	case BackendPostgres:
		return "postgres", databaseURL, "postgres", nil
	case BackendSQLite:
		return "sqlite", sqliteDSN(databaseURL), "sqlite3", nil
	default:
		return "", "", "", fmt.Errorf("%w: %s is not a sql backend", ErrUnsupportedScheme, backend)
	}
}

// sqliteDSN turns sqlite://<path> into a modernc DSN with a busy timeout and
// WAL journaling. file: URIs are passed through unchanged.
func sqliteDSN(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "file:") {
		return databaseURL
	}
	rest := strings.TrimPrefix(databaseURL, "sqlite://")
	path, rawQuery, _ := strings.Cut(rest, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	if !strings.Contains(rawQuery, "busy_timeout") {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", sqliteBusyTimeoutMS))
	}
	if path != ":memory:" && !strings.Contains(rawQuery, "journal_mode") {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	return path + "?" + q.Encode()
}

func configurePool(db *sql.DB, backend Backend, dsn string) {
	if backend == BackendSQLite && strings.HasPrefix(dsn, ":memory:") {
		// Every new connection to :memory: would see an empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
}

func migrate(ctx context.Context, db *sql.DB, dialect string, log logger.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	dir := "migrations/sqlite"
	if dialect == "postgres" {
		dir = "migrations/postgres"
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the service logger.
type gooseLogger struct {
	ctx context.Context //nolint:containedctx // goose.Logger has no context parameter
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	if g.log != nil {
		g.log.Debug(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), logger.String("component", "migrations"))
	}
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	if g.log != nil {
		g.log.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)), logger.String("component", "migrations"))
	}
}
