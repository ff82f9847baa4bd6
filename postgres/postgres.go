package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migration/*.sql
var migrationFS embed.FS

type DB struct {
	db *pgxpool.Pool

	// Datasource name.
	connStr string

	// Now returns the current time.
	// Used to ensure a consistent time value for multiple inserts/updates in a single transaction
	now func() time.Time

	logger *zap.Logger
}

// NewDB returns a new instance of DB associated with the given datasource name.
func NewDB(connStr string, logger *zap.Logger) *DB {
	db := &DB{
		connStr: connStr,
		now:     time.Now,
		logger:  logger,
	}

	return db
}

// Open opens the connection pool and brings the schema up to date.
func (db *DB) Open(ctx context.Context) (err error) {
	// Ensure a DSN is set before attempting to open the database.
	if db.connStr == "" {
		return fmt.Errorf("db connection string required")
	}

	config, err := pgxpool.ParseConfig(db.connStr)
	if err != nil {
		return fmt.Errorf("cannot parse db connection string: %w", err)
	}

	if db.db, err = pgxpool.ConnectConfig(ctx, config); err != nil {
		return err
	}

	if err := db.migrate(ctx, config.ConnConfig); err != nil {
		return fmt.Errorf("error whilst migrating: %w", err)
	}

	return nil
}

// migrate runs the embedded goose migrations over a database/sql handle
// borrowed from the pool's connection config.
func (db *DB) migrate(ctx context.Context, connConfig *pgx.ConnConfig) error {
	sqlDB := stdlib.OpenDB(*connConfig)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(gooseLogger{db.logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, sqlDB, "migration")
}

// Version reports the schema version applied to the database.
func (db *DB) Version(ctx context.Context) (int64, error) {
	var version int64
	err := db.db.QueryRow(ctx, `SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied`).Scan(&version)
	return version, err
}

func (db *DB) Close() {
	if db.db != nil {
		db.db.Close()
	}
}

type Tx struct {
	pgx.Tx
	db  *DB
	now time.Time
}

func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{
		Tx:  tx,
		db:  db,
		now: db.now().UTC().Truncate(time.Second),
	}, nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}
