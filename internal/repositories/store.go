package repository

import (
	"context"
	"fmt"

	"github.com/zdziszkee/swift-directory/internal/database"
)

// DefaultBatchSize bounds the number of rows written per statement.
const DefaultBatchSize = 100

// SQLStore implements Store on top of a database handle
type SQLStore struct {
	db         *database.Database
	conn       DBTX
	countries  *SQLCountryRepository
	swiftBanks *SQLSwiftBankRepository
	inSnapshot bool
}

// Option customises a SQLStore
type Option func(*SQLStore)

// WithBatchSize sets how many rows a batch upsert sends per statement.
// Sizes above database.MaxBatchSize are capped.
func WithBatchSize(size int) Option {
	return func(s *SQLStore) {
		size = min(size, database.MaxBatchSize)
		if size > 0 {
			s.countries.batchSize = size
			s.swiftBanks.batchSize = size
		}
	}
}

// NewSQLStore creates the country and SWIFT bank repositories for db
func NewSQLStore(db *database.Database, opts ...Option) *SQLStore {
	s := newSQLStore(db, db.DB)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newSQLStore(db *database.Database, conn DBTX) *SQLStore {
	dialect := db.Dialect()
	return &SQLStore{
		db:   db,
		conn: conn,
		countries: &SQLCountryRepository{
			db:        conn,
			dialect:   dialect,
			table:     db.Table(database.CountriesTable),
			batchSize: DefaultBatchSize,
		},
		swiftBanks: &SQLSwiftBankRepository{
			db:             conn,
			dialect:        dialect,
			table:          db.Table(database.SwiftBanksTable),
			countriesTable: db.Table(database.CountriesTable),
			batchSize:      DefaultBatchSize,
		},
	}
}

func (s *SQLStore) Countries() CountryRepository { return s.countries }

func (s *SQLStore) SwiftBanks() SwiftBankRepository { return s.swiftBanks }

// ReadSnapshot runs fn inside a read transaction when the dialect supports
// one and directly against the pool otherwise.
func (s *SQLStore) ReadSnapshot(ctx context.Context, fn func(Store) error) (err error) {
	opts := s.db.Dialect().ReadTxOptions()
	if opts == nil || s.inSnapshot {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin read snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	scoped := newSQLStore(s.db, tx)
	scoped.countries.batchSize = s.countries.batchSize
	scoped.swiftBanks.batchSize = s.swiftBanks.batchSize
	scoped.inSnapshot = true
	if err = fn(scoped); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit read snapshot: %w", err)
	}
	return nil
}
