package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zdziszkee/swift-directory/internal/database"
	model "github.com/zdziszkee/swift-directory/internal/models"
)

var swiftBankColumns = []string{"swift_code", "bank_name", "address", "town_name", "country_iso2", "is_headquarter"}

// SQLSwiftBankRepository implements SwiftBankRepository via database/sql
type SQLSwiftBankRepository struct {
	db             DBTX
	dialect        database.Dialect
	table          string
	countriesTable string
	batchSize      int
}

// UpsertBatch inserts banks in batches, skipping codes that already exist
func (r *SQLSwiftBankRepository) UpsertBatch(ctx context.Context, banks []*model.SwiftBank) (int64, error) {
	var inserted int64
	for start := 0; start < len(banks); start += r.batchSize {
		end := min(start+r.batchSize, len(banks))
		batch := banks[start:end]

		query := r.dialect.InsertIfAbsent(r.table, swiftBankColumns, "swift_code", len(batch))
		args := make([]any, 0, len(batch)*len(swiftBankColumns))
		for _, bank := range batch {
			args = append(args, bankArgs(bank)...)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("swift bank batch upsert failed for batch %d-%d: %w", start+1, end, err)
		}
		inserted += rowsAffected(result)
	}
	return inserted, nil
}

// Save adds a single SWIFT bank, overwriting any bank with the same code
func (r *SQLSwiftBankRepository) Save(ctx context.Context, bank *model.SwiftBank) error {
	query := r.dialect.InsertOrReplace(r.table, swiftBankColumns, "swift_code", 1)
	if _, err := r.db.ExecContext(ctx, query, bankArgs(bank)...); err != nil {
		return fmt.Errorf("swift bank save failed: %w", err)
	}
	return nil
}

// ExistsByCode reports whether a bank with the code is stored
func (r *SQLSwiftBankRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE swift_code = %s LIMIT 1", r.table, r.dialect.Placeholder(1))
	var exists int
	err := r.db.QueryRowContext(ctx, query, code).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("swift bank check exists failed: %w", err)
	}
	return true, nil
}

// DeleteByCode removes a SWIFT bank from the database
func (r *SQLSwiftBankRepository) DeleteByCode(ctx context.Context, code string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE swift_code = %s", r.table, r.dialect.Placeholder(1))
	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("swift bank delete failed: %w", err)
	}
	if rowsAffected(result) == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByCodeWithCountry retrieves a SWIFT bank joined with its country
func (r *SQLSwiftBankRepository) FindByCodeWithCountry(ctx context.Context, code string) (*model.SwiftCodeDetails, error) {
	query := fmt.Sprintf(
		"SELECT b.swift_code, b.bank_name, b.address, b.country_iso2, c.name, b.is_headquarter FROM %s b JOIN %s c ON b.country_iso2 = c.iso2_code WHERE b.swift_code = %s",
		r.table, r.countriesTable, r.dialect.Placeholder(1))

	var details model.SwiftCodeDetails
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&details.SwiftCode,
		&details.BankName,
		&details.Address,
		&details.CountryISO2,
		&details.CountryName,
		&details.IsHeadquarter,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("swift bank query failed: %w", err)
	}
	return &details, nil
}

// FindBranchesByPrefix retrieves every other code of the same institution
func (r *SQLSwiftBankRepository) FindBranchesByPrefix(ctx context.Context, code string) ([]model.Branch, error) {
	query := fmt.Sprintf(
		"SELECT b.swift_code, b.bank_name, b.address, c.iso2_code, b.is_headquarter FROM %s b JOIN %s c ON b.country_iso2 = c.iso2_code WHERE substr(b.swift_code, 1, %d) = %s AND b.swift_code <> %s ORDER BY b.swift_code",
		r.table, r.countriesTable, model.CodePrefixLength, r.dialect.Placeholder(1), r.dialect.Placeholder(2))
	return r.queryBranches(ctx, query, model.CodePrefix(code), code)
}

// FindAllByCountry retrieves all SWIFT banks for a country
func (r *SQLSwiftBankRepository) FindAllByCountry(ctx context.Context, iso2 string) ([]model.Branch, error) {
	query := fmt.Sprintf(
		"SELECT swift_code, bank_name, address, country_iso2, is_headquarter FROM %s WHERE country_iso2 = %s ORDER BY swift_code",
		r.table, r.dialect.Placeholder(1))
	return r.queryBranches(ctx, query, iso2)
}

func (r *SQLSwiftBankRepository) queryBranches(ctx context.Context, query string, args ...any) ([]model.Branch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("swift bank query failed: %w", err)
	}
	defer rows.Close()

	branches := []model.Branch{}
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("swift bank scan failed: %w", err)
		}
		branches = append(branches, *branch)
	}

	return branches, rows.Err()
}

func bankArgs(bank *model.SwiftBank) []any {
	return []any{
		bank.SwiftCode,
		bank.BankName,
		bank.Address,
		bank.TownName,
		bank.CountryISO2,
		bank.IsHeadquarter,
	}
}

func scanBranch(scanner interface {
	Scan(dest ...any) error
}) (*model.Branch, error) {
	var branch model.Branch

	err := scanner.Scan(
		&branch.SwiftCode,
		&branch.BankName,
		&branch.Address,
		&branch.CountryISO2,
		&branch.IsHeadquarter,
	)
	if err != nil {
		return nil, err
	}

	return &branch, nil
}
