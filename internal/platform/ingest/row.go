// Package ingest loads provider fixtures from Parquet into Postgres.
//
// Input files are flat: one row per provider, taxonomy and Medicare service
// line combination, with the provider columns repeated. Rows of one NPI must
// be contiguous.
package ingest

import (
	"fmt"
	"time"

	"github.com/doctorwapp/provider-api/internal/domain/provider"
)

// Row is one flattened record of a provider fixture file.
type Row struct {
	NPI              string  `parquet:"npi"`
	ProviderName     string  `parquet:"provider_name"`
	FirstName        *string `parquet:"first_name,optional"`
	LastName         *string `parquet:"last_name,optional"`
	OrganizationName *string `parquet:"organization_name,optional"`
	ProviderType     *string `parquet:"provider_type,optional"`
	Address1         *string `parquet:"address_1,optional"`
	Address2         *string `parquet:"address_2,optional"`
	City             *string `parquet:"city,optional"`
	State            *string `parquet:"state,optional"`
	PostalCode       *string `parquet:"postal_code,optional"`
	CountryCode      *string `parquet:"country_code,optional"`
	Phone            *string `parquet:"phone,optional"`
	Email            *string `parquet:"email,optional"`
	DirectAddress    *string `parquet:"direct_address,optional"`
	FHIREndpoint     *string `parquet:"fhir_endpoint,optional"`
	EnumerationDate  *string `parquet:"enumeration_date,optional"` // YYYY-MM-DD
	LastUpdated      *string `parquet:"last_updated,optional"`     // YYYY-MM-DD
	Status           *string `parquet:"status,optional"`

	TaxonomyCode    *string `parquet:"taxonomy_code,optional"`
	TaxonomyDesc    *string `parquet:"taxonomy_desc,optional"`
	PrimaryTaxonomy *bool   `parquet:"primary_taxonomy,optional"`
	License         *string `parquet:"license,optional"`

	HCPCSCode        *string  `parquet:"hcpcs_code,optional"`
	HCPCSDescription *string  `parquet:"hcpcs_description,optional"`
	ServiceCount     *float64 `parquet:"service_count,optional"`
	BeneficiaryCount *int64   `parquet:"beneficiary_count,optional"`
	SubmittedCharge  *float64 `parquet:"submitted_charge,optional"`
	AllowedAmount    *float64 `parquet:"allowed_amount,optional"`
	PaymentAmount    *float64 `parquet:"payment_amount,optional"`
	ServiceYear      *int32   `parquet:"service_year,optional"`
	PlaceOfService   *string  `parquet:"place_of_service,optional"`
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Row) provider() (provider.Provider, error) {
	enumerated, err := parseDate(r.EnumerationDate)
	if err != nil {
		return provider.Provider{}, fmt.Errorf("npi %s: enumeration_date: %w", r.NPI, err)
	}
	updated, err := parseDate(r.LastUpdated)
	if err != nil {
		return provider.Provider{}, fmt.Errorf("npi %s: last_updated: %w", r.NPI, err)
	}
	return provider.Provider{
		NPI:              r.NPI,
		ProviderName:     r.ProviderName,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		OrganizationName: r.OrganizationName,
		ProviderType:     r.ProviderType,
		Address1:         r.Address1,
		Address2:         r.Address2,
		City:             r.City,
		State:            r.State,
		PostalCode:       r.PostalCode,
		CountryCode:      r.CountryCode,
		Phone:            r.Phone,
		Email:            r.Email,
		DirectAddress:    r.DirectAddress,
		FHIREndpoint:     r.FHIREndpoint,
		EnumerationDate:  enumerated,
		LastUpdated:      updated,
		Status:           r.Status,
	}, nil
}

func (r *Row) service() provider.MedicareService {
	var year *int
	if r.ServiceYear != nil {
		y := int(*r.ServiceYear)
		year = &y
	}
	return provider.MedicareService{
		HCPCSCode:        r.HCPCSCode,
		HCPCSDescription: r.HCPCSDescription,
		ServiceCount:     r.ServiceCount,
		BeneficiaryCount: r.BeneficiaryCount,
		SubmittedCharge:  r.SubmittedCharge,
		AllowedAmount:    r.AllowedAmount,
		PaymentAmount:    r.PaymentAmount,
		ServiceYear:      year,
		PlaceOfService:   r.PlaceOfService,
	}
}

// hasService reports whether the row carries a Medicare service line.
func (r *Row) hasService() bool {
	return r.HCPCSCode != nil || r.ServiceCount != nil || r.PaymentAmount != nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// serviceKey identifies a service line regardless of the taxonomy it was
// cross-joined with.
func serviceKey(r *Row) string {
	return fmt.Sprintf("%s|%d|%s|%v|%v|%v|%v|%v",
		deref(r.HCPCSCode), deref(r.ServiceYear), deref(r.PlaceOfService),
		deref(r.ServiceCount), deref(r.BeneficiaryCount),
		deref(r.SubmittedCharge), deref(r.AllowedAmount), deref(r.PaymentAmount))
}
