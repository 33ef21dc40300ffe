package mocks

import (
	"context"
	"errors"

	models "github.com/zdziszkee/swift-directory/internal/models"
	repository "github.com/zdziszkee/swift-directory/internal/repositories"
)

var ErrNotImplemented = errors.New("mock function not implemented")

// MockCountryRepository implements repository.CountryRepository for testing
type MockCountryRepository struct {
	UpsertCountriesFunc func(ctx context.Context, countries []*models.Country) (int64, error)
	FindNameByISO2Func  func(ctx context.Context, iso2 string) (string, error)
}

func (m *MockCountryRepository) UpsertCountries(ctx context.Context, countries []*models.Country) (int64, error) {
	if m.UpsertCountriesFunc != nil {
		return m.UpsertCountriesFunc(ctx, countries)
	}
	return 0, ErrNotImplemented
}

func (m *MockCountryRepository) FindNameByISO2(ctx context.Context, iso2 string) (string, error) {
	if m.FindNameByISO2Func != nil {
		return m.FindNameByISO2Func(ctx, iso2)
	}
	return "", ErrNotImplemented
}

// MockSwiftBankRepository implements repository.SwiftBankRepository for testing
type MockSwiftBankRepository struct {
	UpsertBatchFunc           func(ctx context.Context, banks []*models.SwiftBank) (int64, error)
	SaveFunc                  func(ctx context.Context, bank *models.SwiftBank) error
	ExistsByCodeFunc          func(ctx context.Context, code string) (bool, error)
	DeleteByCodeFunc          func(ctx context.Context, code string) error
	FindByCodeWithCountryFunc func(ctx context.Context, code string) (*models.SwiftCodeDetails, error)
	FindBranchesByPrefixFunc  func(ctx context.Context, code string) ([]models.Branch, error)
	FindAllByCountryFunc      func(ctx context.Context, iso2 string) ([]models.Branch, error)
}

func (m *MockSwiftBankRepository) UpsertBatch(ctx context.Context, banks []*models.SwiftBank) (int64, error) {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, banks)
	}
	return 0, ErrNotImplemented
}

func (m *MockSwiftBankRepository) Save(ctx context.Context, bank *models.SwiftBank) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, bank)
	}
	return ErrNotImplemented
}

func (m *MockSwiftBankRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.ExistsByCodeFunc != nil {
		return m.ExistsByCodeFunc(ctx, code)
	}
	return false, ErrNotImplemented
}

func (m *MockSwiftBankRepository) DeleteByCode(ctx context.Context, code string) error {
	if m.DeleteByCodeFunc != nil {
		return m.DeleteByCodeFunc(ctx, code)
	}
	return ErrNotImplemented
}

func (m *MockSwiftBankRepository) FindByCodeWithCountry(ctx context.Context, code string) (*models.SwiftCodeDetails, error) {
	if m.FindByCodeWithCountryFunc != nil {
		return m.FindByCodeWithCountryFunc(ctx, code)
	}
	return nil, ErrNotImplemented
}

func (m *MockSwiftBankRepository) FindBranchesByPrefix(ctx context.Context, code string) ([]models.Branch, error) {
	if m.FindBranchesByPrefixFunc != nil {
		return m.FindBranchesByPrefixFunc(ctx, code)
	}
	return nil, ErrNotImplemented
}

func (m *MockSwiftBankRepository) FindAllByCountry(ctx context.Context, iso2 string) ([]models.Branch, error) {
	if m.FindAllByCountryFunc != nil {
		return m.FindAllByCountryFunc(ctx, iso2)
	}
	return nil, ErrNotImplemented
}

// MockStore implements repository.Store. ReadSnapshot runs fn against the
// mock itself unless ReadSnapshotFunc is set.
type MockStore struct {
	CountryRepository   *MockCountryRepository
	SwiftBankRepository *MockSwiftBankRepository
	ReadSnapshotFunc    func(ctx context.Context, fn func(repository.Store) error) error
}

func NewMockStore() *MockStore {
	return &MockStore{
		CountryRepository:   &MockCountryRepository{},
		SwiftBankRepository: &MockSwiftBankRepository{},
	}
}

func (m *MockStore) Countries() repository.CountryRepository {
	return m.CountryRepository
}

func (m *MockStore) SwiftBanks() repository.SwiftBankRepository {
	return m.SwiftBankRepository
}

func (m *MockStore) ReadSnapshot(ctx context.Context, fn func(repository.Store) error) error {
	if m.ReadSnapshotFunc != nil {
		return m.ReadSnapshotFunc(ctx, fn)
	}
	return fn(m)
}
