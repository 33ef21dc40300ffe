package repository

import (
	"context"
	"database/sql"
	"errors"

	model "github.com/zdziszkee/swift-directory/internal/models"
)

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("record not found")

// CountryRepository is the reference data store for countries
type CountryRepository interface {
	// UpsertCountries inserts countries whose ISO2 code is not stored yet and
	// returns how many rows were inserted. Existing rows are left untouched.
	UpsertCountries(ctx context.Context, countries []*model.Country) (int64, error)
	FindNameByISO2(ctx context.Context, iso2 string) (string, error)
}

// SwiftBankRepository is the bank record store
type SwiftBankRepository interface {
	// UpsertBatch inserts banks whose code is not stored yet (first write wins).
	UpsertBatch(ctx context.Context, banks []*model.SwiftBank) (int64, error)
	// Save inserts a bank or replaces the stored one with the same code.
	Save(ctx context.Context, bank *model.SwiftBank) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// DeleteByCode removes a bank in a single statement and returns
	// ErrNotFound when nothing was removed.
	DeleteByCode(ctx context.Context, code string) error
	// FindByCodeWithCountry returns ErrNotFound when the code is absent or
	// its country is not stored.
	FindByCodeWithCountry(ctx context.Context, code string) (*model.SwiftCodeDetails, error)
	// FindBranchesByPrefix lists the other codes of the same institution
	// whose country is stored.
	FindBranchesByPrefix(ctx context.Context, code string) ([]model.Branch, error)
	FindAllByCountry(ctx context.Context, iso2 string) ([]model.Branch, error)
}

// Store groups both repositories over one storage handle
type Store interface {
	Countries() CountryRepository
	SwiftBanks() SwiftBankRepository
	// ReadSnapshot runs fn against a consistent view of the store.
	ReadSnapshot(ctx context.Context, fn func(Store) error) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
