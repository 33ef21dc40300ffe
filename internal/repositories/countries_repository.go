package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zdziszkee/swift-directory/internal/database"
	model "github.com/zdziszkee/swift-directory/internal/models"
)

var countryColumns = []string{"iso2_code", "name", "time_zone"}

// SQLCountryRepository implements CountryRepository via database/sql
type SQLCountryRepository struct {
	db        DBTX
	dialect   database.Dialect
	table     string
	batchSize int
}

// UpsertCountries inserts countries in batches, skipping known ISO2 codes
func (r *SQLCountryRepository) UpsertCountries(ctx context.Context, countries []*model.Country) (int64, error) {
	var inserted int64
	for start := 0; start < len(countries); start += r.batchSize {
		end := min(start+r.batchSize, len(countries))
		batch := countries[start:end]

		query := r.dialect.InsertIfAbsent(r.table, countryColumns, "iso2_code", len(batch))
		args := make([]any, 0, len(batch)*len(countryColumns))
		for _, c := range batch {
			args = append(args, c.ISO2Code, c.Name, c.TimeZone)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("country batch upsert failed for batch %d-%d: %w", start+1, end, err)
		}
		inserted += rowsAffected(result)
	}
	return inserted, nil
}

// FindNameByISO2 returns the name of a stored country
func (r *SQLCountryRepository) FindNameByISO2(ctx context.Context, iso2 string) (string, error) {
	query := fmt.Sprintf("SELECT name FROM %s WHERE iso2_code = %s", r.table, r.dialect.Placeholder(1))
	var name string
	err := r.db.QueryRowContext(ctx, query, iso2).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("country query failed: %w", err)
	}
	return name, nil
}

// rowsAffected tolerates drivers that cannot report affected rows.
func rowsAffected(result sql.Result) int64 {
	n, err := result.RowsAffected()
	if err != nil || n < 0 {
		return 0
	}
	return n
}
