package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	// Import database drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
)

// Table names a service can own.
const (
	TableUsers    = "users"
	TableBudgets  = "budgets"
	TableExpenses = "expenses"
)

//go:embed migrations
var migrations embed.FS

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DB wraps a sqlx.DB connection.
type DB struct {
	conn   *sqlx.DB
	driver string
}

// Open opens a database connection for the given driver and verifies it.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverPGX:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Every sqlite connection to ":memory:" is its own database.
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn, driver: driver}, nil
}

// NewDB opens a sqlite database at path and migrates the given tables.
func NewDB(path string, tables ...string) (*DB, error) {
	db, err := Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(context.Background(), tables...); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations of each table. Every table keeps
// its own version table so services sharing one postgres database do not
// interfere.
func (db *DB) Migrate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if err := db.migrateTable(ctx, table); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
	}
	return nil
}

func (db *DB) migrateTable(ctx context.Context, table string) error {
	switch table {
	case TableUsers, TableBudgets, TableExpenses:
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	dialect := DriverPostgres
	if db.driver == DriverSQLite {
		dialect = DriverSQLite
	}

	src, err := iofs.New(migrations, "migrations/"+dialect+"/"+table)
	if err != nil {
		return err
	}

	versionTable := "schema_migrations_" + table

	var drv database.Driver
	if dialect == DriverSQLite {
		drv, err = sqlite.WithInstance(db.conn.DB, &sqlite.Config{MigrationsTable: versionTable})
		if err != nil {
			src.Close()
			return err
		}
		// Closing the sqlite driver closes the shared *sql.DB, so only the
		// source is released here.
		defer src.Close()
	} else {
		c, err := db.conn.Conn(ctx)
		if err != nil {
			src.Close()
			return err
		}
		drv, err = postgres.WithConnection(ctx, c, &postgres.Config{MigrationsTable: versionTable})
		if err != nil {
			c.Close()
			src.Close()
			return err
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, drv)
	if err != nil {
		return err
	}
	if dialect != DriverSQLite {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Driver returns the name of the database driver in use.
func (db *DB) Driver() string {
	return db.driver
}

// Ping verifies the connection is still alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
