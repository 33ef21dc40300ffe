package mocks

import (
	"context"

	models "github.com/zdziszkee/swift-directory/internal/models"
)

// MockSwiftService implements service.SwiftService.
type MockSwiftService struct {
	GetSwiftCodeDetailsFunc    func(ctx context.Context, code string) (*models.SwiftCodeDetails, error)
	GetSwiftCodesByCountryFunc func(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error)
	CreateSwiftCodeFunc        func(ctx context.Context, req *models.CreateSwiftCodeRequest) error
	DeleteSwiftCodeFunc        func(ctx context.Context, code string) error
}

func (m *MockSwiftService) GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error) {
	if m.GetSwiftCodeDetailsFunc != nil {
		return m.GetSwiftCodeDetailsFunc(ctx, code)
	}
	return nil, ErrNotImplemented
}

func (m *MockSwiftService) GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error) {
	if m.GetSwiftCodesByCountryFunc != nil {
		return m.GetSwiftCodesByCountryFunc(ctx, countryISO2)
	}
	return nil, ErrNotImplemented
}

func (m *MockSwiftService) CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) error {
	if m.CreateSwiftCodeFunc != nil {
		return m.CreateSwiftCodeFunc(ctx, req)
	}
	return ErrNotImplemented
}

func (m *MockSwiftService) DeleteSwiftCode(ctx context.Context, code string) error {
	if m.DeleteSwiftCodeFunc != nil {
		return m.DeleteSwiftCodeFunc(ctx, code)
	}
	return ErrNotImplemented
}
