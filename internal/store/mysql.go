package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/salesboard/sales-dashboard/internal/dependency"
)

// DefaultDSN is the local development database. It is used when no DSN is
// configured so the service starts without any configuration at all.
// loc=Local pins the session timezone DATE() grouping happens in.
const DefaultDSN = "sales:sales@tcp(localhost:3306)/sales_dashboard?charset=utf8mb4&parseTime=true&loc=Local"

// Config defines configurations to connect database
type Config struct {
	DSN                string `mapstructure:"dsn"`
	Automigrate        bool   `mapstructure:"automigrate"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// MYSQLStore implements methods to access MYSQL database
type MYSQLStore struct {
	db    dependency.DB
	close context.CancelFunc
}

func (ms *MYSQLStore) DB() dependency.DB {
	return ms.db
}

// Now returns current time for the store.
func (ms *MYSQLStore) Now() time.Time {
	return time.Now()
}

// Close releases the underlying connection pool.
func (ms *MYSQLStore) Close() {
	if ms.close != nil {
		ms.close()
	}
}

// New connects to the database, applies migrations and returns a new
// MYSQLStore object. The pool is shared across requests; each query acquires
// and releases a connection on every exit path.
func New(ctx context.Context, cfg Config) (*MYSQLStore, error) {
	dsn := cfg.DSN
	if dsn == "" {
		slog.Default().WarnContext(ctx, "no DSN configured, falling back to local development database")
		dsn = DefaultDSN
	}

	d, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("couldn't open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConnections > 0 {
		d.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		d.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	d.SetConnMaxLifetime(2 * time.Minute)
	d.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := d.PingContext(pingCtx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Automigrate {
		slog.Default().InfoContext(ctx, "applying migrations")
		migrateCtx, migrateCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer migrateCancel()
		if err := MigrateWithContext(migrateCtx, d.Unsafe().DB); err != nil {
			d.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	ctx, c := context.WithCancel(ctx)
	ss := &MYSQLStore{
		db:    d,
		close: c,
	}

	go func() {
		<-ctx.Done()
		d.Close()
	}()

	return ss, nil
}

//go:embed sql
var fs embed.FS

func MigrateWithContext(ctx context.Context, db *sql.DB) error {
	m := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "sql",
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := migrate.Exec(db, "mysql", m, migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("migration cancelled: %w", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("exec migrations: %w", r.err)
		}
		slog.Default().InfoContext(ctx, "migrations applied", slog.Int("count", r.n))
		return nil
	}
}
