package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zdziszkee/swift-directory/internal/metrics"
	model "github.com/zdziszkee/swift-directory/internal/models"
	parser "github.com/zdziszkee/swift-directory/internal/parsers"
	reader "github.com/zdziszkee/swift-directory/internal/readers"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
)

var (
	ErrInvalidRow = parser.ErrInvalidRow
	ErrStorage    = errors.New("storage failure")
)

// ImportSummary describes one finished import run
type ImportSummary struct {
	RunID             string        `json:"runId"`
	RowsRead          int           `json:"rowsRead"`
	RowsSkipped       int           `json:"rowsSkipped"`
	Countries         int           `json:"countries"`
	Banks             int           `json:"banks"`
	CountriesInserted int64         `json:"countriesInserted"`
	BanksInserted     int64         `json:"banksInserted"`
	Duration          time.Duration `json:"durationNs"`
}

// Importer loads SWIFT code rows into the directory store
type Importer interface {
	Import(ctx context.Context, rows reader.RowReader) (*ImportSummary, error)
}

// SwiftCodesImporter is the Importer backed by a repository.Store
type SwiftCodesImporter struct {
	store   repository.Store
	parser  parser.SwiftBanksParser
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a SwiftCodesImporter
type Option func(*SwiftCodesImporter)

// WithParser replaces the default row parser.
func WithParser(p parser.SwiftBanksParser) Option {
	return func(i *SwiftCodesImporter) {
		i.parser = p
	}
}

// WithMetrics records import runs on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *SwiftCodesImporter) {
		i.metrics = m
	}
}

// New creates an importer writing to store.
func New(store repository.Store, logger *zap.Logger, opts ...Option) *SwiftCodesImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &SwiftCodesImporter{
		store:  store,
		parser: parser.DefaultSwiftBanksParser{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// batch accumulates the distinct records of one run, first occurrence wins
type batch struct {
	countries   []*model.Country
	banks       []*model.SwiftBank
	seenCountry map[string]struct{}
	seenBank    map[string]struct{}
}

func newBatch() *batch {
	return &batch{
		seenCountry: make(map[string]struct{}),
		seenBank:    make(map[string]struct{}),
	}
}

func (b *batch) add(row *parser.ParsedRow) {
	if _, ok := b.seenCountry[row.Country.ISO2Code]; !ok {
		b.seenCountry[row.Country.ISO2Code] = struct{}{}
		country := row.Country
		b.countries = append(b.countries, &country)
	}
	if _, ok := b.seenBank[row.Bank.SwiftCode]; !ok {
		b.seenBank[row.Bank.SwiftCode] = struct{}{}
		bank := row.Bank
		b.banks = append(b.banks, &bank)
	}
}

// Import reads every row, then upserts the collected countries followed by
// the banks. Nothing is written when a row is invalid. Batches written before
// a storage failure stay in place; running the import again is idempotent.
func (i *SwiftCodesImporter) Import(ctx context.Context, rows reader.RowReader) (*ImportSummary, error) {
	start := i.now()
	summary := &ImportSummary{RunID: uuid.NewString()}
	logger := i.logger.With(zap.String("run_id", summary.RunID))
	logger.Info("import started")

	summary, err := i.run(ctx, rows, summary, logger)
	summary.Duration = i.now().Sub(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, ErrInvalidRow):
		outcome = metrics.OutcomeInvalid
	case err != nil:
		outcome = metrics.OutcomeError
	}
	i.metrics.RecordImport(outcome, summary.RowsRead, summary.RowsSkipped, summary.CountriesInserted, summary.BanksInserted, summary.Duration)

	if err != nil {
		logger.Error("import failed", zap.Error(err), zap.Int("rows_read", summary.RowsRead))
		return summary, err
	}
	logger.Info("import finished",
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("rows_skipped", summary.RowsSkipped),
		zap.Int("countries", summary.Countries),
		zap.Int("banks", summary.Banks),
		zap.Int64("countries_inserted", summary.CountriesInserted),
		zap.Int64("banks_inserted", summary.BanksInserted),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (i *SwiftCodesImporter) run(ctx context.Context, rows reader.RowReader, summary *ImportSummary, logger *zap.Logger) (*ImportSummary, error) {
	collected := newBatch()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		cells, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("%w %d: %v", ErrInvalidRow, index, err)
		}

		if index == 0 {
			if !parser.HeaderMatches(cells) {
				logger.Warn("unexpected header row", zap.Strings("header", cells))
			}
			continue
		}

		summary.RowsRead++
		row, err := i.parser.ParseRow(index, cells)
		if errors.Is(err, parser.ErrBlankRow) {
			summary.RowsSkipped++
			continue
		}
		if err != nil {
			return summary, err
		}
		collected.add(row)
	}

	summary.Countries = len(collected.countries)
	summary.Banks = len(collected.banks)

	inserted, err := i.store.Countries().UpsertCountries(ctx, collected.countries)
	summary.CountriesInserted = inserted
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	inserted, err = i.store.SwiftBanks().UpsertBatch(ctx, collected.banks)
	summary.BanksInserted = inserted
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return summary, nil
}
