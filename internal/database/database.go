package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"           // postgres driver
	_ "github.com/trinodb/trino-go-client/trino" // Trino driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

//go:embed schema/*.sql
var schemaFS embed.FS

var sqlOpen = sql.Open

// MaxBatchSize is the largest number of rows sent in one multi-row insert.
// Six bound columns per row keeps it under SQLite's 32766 variable limit
// and Postgres' 65535 parameter limit.
const MaxBatchSize = 5000

// Config holds configuration for the database connection
type Config struct {
	Type            string        `koanf:"type"`
	ServerURI       string        `koanf:"server_uri"`
	DSN             string        `koanf:"dsn"`
	Catalog         string        `koanf:"catalog"`
	Schema          string        `koanf:"schema"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectRetries  int           `koanf:"connect_retries"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff"`
	ApplySchema     bool          `koanf:"apply_schema"`
	SchemaFile      string        `koanf:"schema_file"`
}

// Database provides a database connection together with the dialect used
// to talk to it
type Database struct {
	*sql.DB
	Config Config
	logger *zap.Logger
}

// New opens the configured database, waits for it to answer and optionally
// applies the schema.
func New(ctx context.Context, config Config, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialect, err := DialectFor(config.Type)
	if err != nil {
		return nil, err
	}

	dsn, err := dataSourceName(config)
	if err != nil {
		return nil, err
	}

	db, err := sqlOpen(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", dialect.Name(), err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	if dialect.Name() == "sqlite" && isMemoryDSN(dsn) {
		// every connection to :memory: is a separate database, keep exactly one alive
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	database := &Database{DB: db, Config: config, logger: logger}

	if err := database.waitForConnection(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if config.ApplySchema {
		if config.SchemaFile != "" {
			err = database.ExecuteSchema(config.SchemaFile)
		} else {
			err = database.ApplySchema(ctx)
		}
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	return database, nil
}

// Dialect returns the SQL dialect for the configured database type. An
// unknown type falls back to trino.
func (db *Database) Dialect() Dialect {
	d, err := DialectFor(db.Config.Type)
	if err != nil {
		return trinoDialect{}
	}
	return d
}

// Table returns the qualified name of one of the directory tables.
func (db *Database) Table(name string) string {
	return db.Dialect().QualifiedTable(db.Config, name)
}

func (db *Database) waitForConnection(ctx context.Context) error {
	attempts := db.Config.ConnectRetries + 1
	backoff := db.Config.ConnectBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		db.log().Warn("database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to ping %s: %w", db.Dialect().Name(), ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed to ping %s: %w", db.Dialect().Name(), err)
}

// ApplySchema executes the embedded schema for the configured dialect.
func (db *Database) ApplySchema(ctx context.Context) error {
	raw, err := schemaFS.ReadFile(db.Dialect().schemaFile())
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	replacer := strings.NewReplacer(
		"{{countries}}", db.Table(CountriesTable),
		"{{swift_banks}}", db.Table(SwiftBanksTable),
	)
	return db.executeStatements(ctx, replacer.Replace(string(raw)))
}

// ExecuteSchema loads and executes a schema file from disk
func (db *Database) ExecuteSchema(filePath string) error {
	db.log().Info("executing schema", zap.String("path", filePath))

	schemaSQL, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	return db.executeStatements(context.Background(), string(schemaSQL))
}

// executeStatements runs statements one by one (Trino does not support
// multi-statement execution)
func (db *Database) executeStatements(ctx context.Context, schemaSQL string) error {
	for _, query := range strings.Split(schemaSQL, ";") {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		db.log().Debug("executing query", zap.String("query", query))
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	db.log().Info("schema successfully executed")
	return nil
}

func (db *Database) log() *zap.Logger {
	if db.logger == nil {
		return zap.NewNop()
	}
	return db.logger
}

func dataSourceName(config Config) (string, error) {
	switch strings.ToLower(config.Type) {
	case "trino":
		if config.ServerURI == "" {
			return "", fmt.Errorf("trino server_uri cannot be empty")
		}
		return fmt.Sprintf("%s?catalog=%s&schema=%s", config.ServerURI, config.Catalog, config.Schema), nil
	default:
		if config.DSN == "" {
			return "", fmt.Errorf("%s dsn cannot be empty", config.Type)
		}
		return config.DSN, nil
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
