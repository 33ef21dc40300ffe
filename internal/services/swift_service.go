package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/zdziszkee/swift-directory/internal/metrics"
	models "github.com/zdziszkee/swift-directory/internal/models"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
)

var (
	ErrNotFound     = errors.New("swift code not found")
	ErrInvalidInput = errors.New("invalid input provided")
	ErrStorage      = errors.New("storage failure")
)

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

const (
	opGetDetails  = "get_swift_code"
	opListCountry = "list_country"
	opCreate      = "create_swift_code"
	opDelete      = "delete_swift_code"
)

// SwiftService handles business logic for SWIFT codes
type SwiftService interface {
	GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error)
	GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error)
	CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) error
	DeleteSwiftCode(ctx context.Context, code string) error
}

// swiftService implements SwiftService
type swiftService struct {
	store   repository.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSwiftService creates a new instance of the Swift service. logger and m
// may be nil.
func NewSwiftService(store repository.Store, logger *zap.Logger, m *metrics.Metrics) SwiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &swiftService{store: store, logger: logger, metrics: m}
}

// GetSwiftCodeDetails returns a code joined with its country. Headquarters
// carry their branch list, which may be empty; other codes carry none.
func (s *swiftService) GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error) {
	code = normalize(code)
	if code == "" {
		return nil, s.fail(opGetDetails, ErrInvalidInput)
	}

	var details *models.SwiftCodeDetails
	err := s.store.ReadSnapshot(ctx, func(snap repository.Store) error {
		found, err := snap.SwiftBanks().FindByCodeWithCountry(ctx, code)
		if err != nil {
			return err
		}
		found.Branches = nil
		if found.IsHeadquarter {
			branches, err := snap.SwiftBanks().FindBranchesByPrefix(ctx, found.SwiftCode)
			if err != nil {
				return err
			}
			if branches == nil {
				branches = []models.Branch{}
			}
			found.Branches = branches
		}
		details = found
		return nil
	})
	if err != nil {
		s.logger.Debug("swift code lookup failed", zap.String("swift_code", code), zap.Error(err))
		return nil, s.fail(opGetDetails, err)
	}

	s.metrics.RecordOperation(opGetDetails, metrics.OutcomeSuccess)
	return details, nil
}

// GetSwiftCodesByCountry lists every code registered for a known country.
func (s *swiftService) GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error) {
	countryISO2 = normalize(countryISO2)
	if countryISO2 == "" {
		return nil, s.fail(opListCountry, ErrInvalidInput)
	}

	var listing *models.CountrySwiftCodes
	err := s.store.ReadSnapshot(ctx, func(snap repository.Store) error {
		name, err := snap.Countries().FindNameByISO2(ctx, countryISO2)
		if err != nil {
			return err
		}
		codes, err := snap.SwiftBanks().FindAllByCountry(ctx, countryISO2)
		if err != nil {
			return err
		}
		if codes == nil {
			codes = []models.Branch{}
		}
		listing = &models.CountrySwiftCodes{CountryISO2: countryISO2, CountryName: name, SwiftCodes: codes}
		return nil
	})
	if err != nil {
		s.logger.Debug("country lookup failed", zap.String("country_iso2", countryISO2), zap.Error(err))
		return nil, s.fail(opListCountry, err)
	}

	s.metrics.RecordOperation(opListCountry, metrics.OutcomeSuccess)
	return listing, nil
}

// CreateSwiftCode stores a single code, replacing any record with the same
// code. IsHeadquarter is taken from the request as given.
func (s *swiftService) CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) error {
	bank, err := bankFromRequest(req)
	if err != nil {
		s.logger.Debug("rejected swift code payload", zap.Error(err))
		return s.fail(opCreate, err)
	}

	if err := s.store.SwiftBanks().Save(ctx, bank); err != nil {
		return s.fail(opCreate, err)
	}

	s.logger.Info("swift code saved", zap.String("swift_code", bank.SwiftCode), zap.Bool("is_headquarter", bank.IsHeadquarter))
	s.metrics.RecordOperation(opCreate, metrics.OutcomeSuccess)
	return nil
}

// DeleteSwiftCode removes a code. The store checks and deletes in one
// operation.
func (s *swiftService) DeleteSwiftCode(ctx context.Context, code string) error {
	code = normalize(code)
	if code == "" {
		return s.fail(opDelete, ErrInvalidInput)
	}

	if err := s.store.SwiftBanks().DeleteByCode(ctx, code); err != nil {
		return s.fail(opDelete, err)
	}

	s.logger.Info("swift code deleted", zap.String("swift_code", code))
	s.metrics.RecordOperation(opDelete, metrics.OutcomeSuccess)
	return nil
}

func bankFromRequest(req *models.CreateSwiftCodeRequest) (*models.SwiftBank, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.SwiftCode == nil || normalize(*req.SwiftCode) == "" {
		return nil, fmt.Errorf("%w: swiftCode is required", ErrInvalidInput)
	}
	if req.BankName == nil || strings.TrimSpace(*req.BankName) == "" {
		return nil, fmt.Errorf("%w: bankName is required", ErrInvalidInput)
	}
	if req.CountryISO2 == nil || !countryCodeRegex.MatchString(normalize(*req.CountryISO2)) {
		return nil, fmt.Errorf("%w: countryISO2 must be a two letter code", ErrInvalidInput)
	}
	if req.Address == nil {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if req.IsHeadquarter == nil {
		return nil, fmt.Errorf("%w: isHeadquarter is required", ErrInvalidInput)
	}

	return &models.SwiftBank{
		SwiftCode:     normalize(*req.SwiftCode),
		BankName:      strings.TrimSpace(*req.BankName),
		Address:       strings.TrimSpace(*req.Address),
		CountryISO2:   normalize(*req.CountryISO2),
		IsHeadquarter: *req.IsHeadquarter,
	}, nil
}

// fail maps a repository error onto the service errors and records the
// outcome.
func (s *swiftService) fail(op string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		s.metrics.RecordOperation(op, metrics.OutcomeInvalid)
		return err
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.RecordOperation(op, metrics.OutcomeNotFound)
		return ErrNotFound
	default:
		s.metrics.RecordOperation(op, metrics.OutcomeError)
		s.logger.Error("storage operation failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

// SWIFT codes and ISO2 codes are case-insensitive identifiers, stored uppercase.
func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
