package models

import "encoding/json"

// Branch is the short representation used in branch lists and country
// listings.
type Branch struct {
	SwiftCode     string `json:"swiftCode"`
	BankName      string `json:"bankName"`
	Address       string `json:"address"`
	CountryISO2   string `json:"countryISO2"`
	IsHeadquarter bool   `json:"isHeadquarter"`
}

// SwiftCodeDetails is a bank joined with its country. Branches is nil for
// anything that is not a headquarters and is then omitted from JSON.
type SwiftCodeDetails struct {
	SwiftCode     string   `json:"swiftCode"`
	BankName      string   `json:"bankName"`
	Address       string   `json:"address"`
	CountryISO2   string   `json:"countryISO2"`
	CountryName   string   `json:"countryName,omitempty"`
	IsHeadquarter bool     `json:"isHeadquarter"`
	Branches      []Branch `json:"branches,omitempty"`
}

// MarshalJSON emits branches whenever the slice is non-nil, including an
// empty list for a headquarters without branches.
func (d SwiftCodeDetails) MarshalJSON() ([]byte, error) {
	type plain SwiftCodeDetails
	out := struct {
		plain
		Branches *[]Branch `json:"branches,omitempty"`
	}{plain: plain(d)}
	if d.Branches != nil {
		out.Branches = &d.Branches
	}
	return json.Marshal(out)
}

// CountrySwiftCodes holds all SWIFT codes for a specific country
type CountrySwiftCodes struct {
	CountryISO2 string   `json:"countryISO2"`
	CountryName string   `json:"countryName"`
	SwiftCodes  []Branch `json:"swiftCodes"`
}

// CreateSwiftCodeRequest is the payload accepted when registering a single
// code. Pointer fields distinguish a missing field from its zero value.
type CreateSwiftCodeRequest struct {
	Address       *string `json:"address"`
	BankName      *string `json:"bankName"`
	CountryISO2   *string `json:"countryISO2"`
	CountryName   *string `json:"countryName,omitempty"`
	IsHeadquarter *bool   `json:"isHeadquarter"`
	SwiftCode     *string `json:"swiftCode"`
}
