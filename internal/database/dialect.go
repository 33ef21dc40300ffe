package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Table names shared by every dialect.
const (
	CountriesTable  = "countries"
	SwiftBanksTable = "swift_banks"
)

// Dialect hides the SQL differences between the supported engines. All
// statements are built from column lists so repositories stay engine
// agnostic.
type Dialect interface {
	Name() string
	DriverName() string
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string
	// QualifiedTable returns the fully qualified name of a table.
	QualifiedTable(cfg Config, table string) string
	// InsertIfAbsent builds a multi-row insert that leaves existing keys untouched.
	InsertIfAbsent(table string, columns []string, key string, rows int) string
	// InsertOrReplace builds a multi-row insert that overwrites existing keys.
	InsertOrReplace(table string, columns []string, key string, rows int) string
	// ReadTxOptions returns the options for a read snapshot, or nil when the
	// engine has no usable transactions.
	ReadTxOptions() *sql.TxOptions
	schemaFile() string
}

// DialectFor resolves a configured database type.
func DialectFor(dbType string) (Dialect, error) {
	switch strings.ToLower(dbType) {
	case "trino":
		return trinoDialect{}, nil
	case "postgres", "postgresql", "pgx":
		return postgresDialect{}, nil
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func valuesList(d Dialect, width, rows int) string {
	var sb strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for c := 0; c < width; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(n))
			n++
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func updateColumns(columns []string, key, source string) string {
	sets := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == key {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s.%s", col, source, col))
	}
	return strings.Join(sets, ", ")
}

// onConflictInsert covers postgres and sqlite, which share the upsert clause.
func onConflictInsert(d Dialect, table string, columns []string, key string, rows int, replace bool) string {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) ",
		table, strings.Join(columns, ", "), valuesList(d, len(columns), rows), key)
	if replace {
		return query + "DO UPDATE SET " + updateColumns(columns, key, "excluded")
	}
	return query + "DO NOTHING"
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }
func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) schemaFile() string { return "schema/postgres.sql" }

func (postgresDialect) QualifiedTable(cfg Config, table string) string {
	if cfg.Schema == "" {
		return table
	}
	return cfg.Schema + "." + table
}

func (d postgresDialect) InsertIfAbsent(table string, columns []string, key string, rows int) string {
	return onConflictInsert(d, table, columns, key, rows, false)
}

func (d postgresDialect) InsertOrReplace(table string, columns []string, key string, rows int) string {
	return onConflictInsert(d, table, columns, key, rows, true)
}

func (postgresDialect) ReadTxOptions() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) schemaFile() string { return "schema/sqlite.sql" }
func (sqliteDialect) QualifiedTable(_ Config, t string) string { return t }

func (d sqliteDialect) InsertIfAbsent(table string, columns []string, key string, rows int) string {
	return onConflictInsert(d, table, columns, key, rows, false)
}

func (d sqliteDialect) InsertOrReplace(table string, columns []string, key string, rows int) string {
	return onConflictInsert(d, table, columns, key, rows, true)
}

// SQLite transactions are serializable already.
func (sqliteDialect) ReadTxOptions() *sql.TxOptions { return &sql.TxOptions{} }

// trinoDialect targets Iceberg tables, which have no key constraints, so
// conflicts are resolved with MERGE.
type trinoDialect struct{}

func (trinoDialect) Name() string { return "trino" }
func (trinoDialect) DriverName() string { return "trino" }
func (trinoDialect) Placeholder(int) string { return "?" }
func (trinoDialect) schemaFile() string { return "schema/trino.sql" }

func (trinoDialect) QualifiedTable(cfg Config, table string) string {
	parts := make([]string, 0, 3)
	if cfg.Catalog != "" {
		parts = append(parts, cfg.Catalog)
	}
	if cfg.Schema != "" {
		parts = append(parts, cfg.Schema)
	}
	return strings.Join(append(parts, table), ".")
}

func (d trinoDialect) merge(table string, columns []string, key string, rows int, replace bool) string {
	cols := strings.Join(columns, ", ")
	sourceCols := make([]string, len(columns))
	for i, col := range columns {
		sourceCols[i] = "source." + col
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MERGE INTO %s AS target USING (VALUES %s) AS source (%s) ON target.%s = source.%s",
		table, valuesList(d, len(columns), rows), cols, key, key)
	if replace {
		sb.WriteString(" WHEN MATCHED THEN UPDATE SET " + updateColumns(columns, key, "source"))
	}
	fmt.Fprintf(&sb, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)", cols, strings.Join(sourceCols, ", "))
	return sb.String()
}

func (d trinoDialect) InsertIfAbsent(table string, columns []string, key string, rows int) string {
	return d.merge(table, columns, key, rows, false)
}

func (d trinoDialect) InsertOrReplace(table string, columns []string, key string, rows int) string {
	return d.merge(table, columns, key, rows, true)
}

// The trino driver does not support transactions.
func (trinoDialect) ReadTxOptions() *sql.TxOptions { return nil }
