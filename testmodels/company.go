package testmodels

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// Company is a company with its office addresses.
type Company struct {

	// Name of the company.
	// Required: true
	Name string `json:"Name"`

	// Offices of the company.
	OfficeAddresses []OfficeAddress `json:"OfficeAddresses"`

	// Timestamp when the company was registered.
	// Format: date-time
	RegisteredAt *strfmt.DateTime `json:"RegisteredAt,omitempty"`
}

// OfficeAddress is one office of a company.
type OfficeAddress struct {
	Address string `json:"Address"`
	City    string `json:"City"`
	Country string `json:"Country"`
}

// CompanyFoo and CompanyBar are heterogeneous payload elements stored side
// by side in one document.
type CompanyFoo struct {
	Name     string  `json:"Name"`
	FooValue float64 `json:"FooValue"`
}

type CompanyBar struct {
	Name     string `json:"Name"`
	BarValue string `json:"BarValue"`
}

// CompanyResult is the projection of a company onto the countries it has offices in.
type CompanyResult struct {
	CompanyName string   `json:"CompanyName"`
	Countries   []string `json:"Countries"`
}

// MockCompanies generates n companies with ten offices each. Company i is
// named "company_name_<i>".
func MockCompanies(n int) []Company {
	registered := strfmt.DateTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	companies := make([]Company, 0, n)
	for i := 0; i < n; i++ {
		offices := make([]OfficeAddress, 0, 10)
		for j := 0; j < 10; j++ {
			offices = append(offices, OfficeAddress{
				Address: fmt.Sprintf("office_%d.address_%d", i, j),
				City:    fmt.Sprintf("office_%d.city_%d", i, j),
				Country: fmt.Sprintf("office_%d.country_%d", i, j),
			})
		}
		companies = append(companies, Company{
			Name:            fmt.Sprintf("company_name_%d", i),
			OfficeAddresses: offices,
			RegisteredAt:    &registered,
		})
	}
	return companies
}

// Countries projects a company onto a CompanyResult.
func (c Company) Countries() CompanyResult {
	countries := make([]string, 0, len(c.OfficeAddresses))
	for _, office := range c.OfficeAddresses {
		countries = append(countries, office.Country)
	}
	return CompanyResult{CompanyName: c.Name, Countries: countries}
}

// MixedCompanies returns the bar/foo pair used by round-trip tests.
func MixedCompanies() []any {
	return []any{
		CompanyBar{Name: "bar-name", BarValue: "bar-value"},
		CompanyFoo{Name: "foo-name", FooValue: 42},
	}
}
