package provider

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// SearchAddress is the address block of a search result. Absent parts are "".
type SearchAddress struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// SearchResult is the lightweight provider shape returned by search. It
// never carries null strings.
type SearchResult struct {
	NPI              string        `json:"npi"`
	ProviderName     string        `json:"provider_name"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	OrganizationName string        `json:"organization_name"`
	ProviderType     string        `json:"provider_type"`
	Address          SearchAddress `json:"address"`
	Phone            string        `json:"phone"`
	Status           string        `json:"status"`
}

// SearchResponse is the body of GET /api/providers/search.
type SearchResponse struct {
	Providers []SearchResult `json:"providers"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
}

// Address is the address block of the detail view. Absent parts stay null.
type Address struct {
	Line1       *string `json:"line1"`
	Line2       *string `json:"line2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postal_code"`
	CountryCode *string `json:"country_code"`
}

type TaxonomyView struct {
	Code        string  `json:"code"`
	Description *string `json:"description"`
	IsPrimary   bool    `json:"isPrimary"`
	License     *string `json:"license"`
}

type ServiceView struct {
	Code             *string `json:"code"`
	Description      *string `json:"description"`
	ServiceCount     float64 `json:"serviceCount"`
	BeneficiaryCount int64   `json:"beneficiaryCount"`
	SubmittedCharge  float64 `json:"submittedCharge"`
	AllowedAmount    float64 `json:"allowedAmount"`
	PaymentAmount    float64 `json:"paymentAmount"`
	Year             *int    `json:"year"`
	PlaceOfService   *string `json:"placeOfService"`
}

// MedicareSummary totals a provider's service lines. Missing figures count
// as zero.
type MedicareSummary struct {
	TotalServices      float64 `json:"totalServices"`
	TotalBeneficiaries int64   `json:"totalBeneficiaries"`
	TotalPayments      float64 `json:"totalPayments"`
	TotalSubmitted     float64 `json:"totalSubmitted"`
	TotalAllowed       float64 `json:"totalAllowed"`
}

type Medicare struct {
	Summary  MedicareSummary `json:"summary"`
	Services []ServiceView   `json:"services"`
}

// Detail is the full provider view returned by GET /api/providers/:npi.
type Detail struct {
	NPI              string         `json:"npi"`
	ProviderName     string         `json:"provider_name"`
	FirstName        *string        `json:"first_name"`
	LastName         *string        `json:"last_name"`
	OrganizationName *string        `json:"organization_name"`
	ProviderType     *string        `json:"provider_type"`
	Address          Address        `json:"address"`
	Phone            *string        `json:"phone"`
	Email            *string        `json:"email"`
	DirectAddress    *string        `json:"direct_address"`
	FHIREndpoint     *string        `json:"fhir_endpoint"`
	EnumerationDate  *string        `json:"enumeration_date"`
	LastUpdated      *string        `json:"last_updated"`
	Status           *string        `json:"status"`
	Taxonomies       []TaxonomyView `json:"taxonomies"`
	Medicare         Medicare       `json:"medicare"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// cents rounds a monetary total so float accumulation does not leak into
// the response.
func cents(f float64) float64 {
	return math.Round(f*100) / 100
}

// NewSearchResult maps a provider to the search shape.
func NewSearchResult(p *Provider) SearchResult {
	return SearchResult{
		NPI:              p.NPI,
		ProviderName:     p.ProviderName,
		FirstName:        str(p.FirstName),
		LastName:         str(p.LastName),
		OrganizationName: str(p.OrganizationName),
		ProviderType:     str(p.ProviderType),
		Address: SearchAddress{
			Line1:       str(p.Address1),
			Line2:       str(p.Address2),
			City:        str(p.City),
			State:       str(p.State),
			PostalCode:  str(p.PostalCode),
			CountryCode: str(p.CountryCode),
		},
		Phone:  str(p.Phone),
		Status: str(p.Status),
	}
}

func NewSearchResponse(page *SearchPage) SearchResponse {
	results := make([]SearchResult, 0, len(page.Providers))
	for _, p := range page.Providers {
		results = append(results, NewSearchResult(p))
	}
	return SearchResponse{
		Providers: results,
		Total:     page.Total,
		Page:      page.Page.Page,
		Limit:     page.Page.Limit,
	}
}

// Summarize totals services. An empty list yields an all-zero summary.
func Summarize(services []MedicareService) MedicareSummary {
	var sum MedicareSummary
	for _, s := range services {
		sum.TotalServices += num(s.ServiceCount)
		if s.BeneficiaryCount != nil {
			sum.TotalBeneficiaries += *s.BeneficiaryCount
		}
		sum.TotalPayments += num(s.PaymentAmount)
		sum.TotalSubmitted += num(s.SubmittedCharge)
		sum.TotalAllowed += num(s.AllowedAmount)
	}
	sum.TotalServices = cents(sum.TotalServices)
	sum.TotalPayments = cents(sum.TotalPayments)
	sum.TotalSubmitted = cents(sum.TotalSubmitted)
	sum.TotalAllowed = cents(sum.TotalAllowed)
	return sum
}

func date(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// NewDetail maps a provider and its collections to the detail shape.
func NewDetail(d *ProviderDetail) Detail {
	taxonomies := make([]TaxonomyView, 0, len(d.Taxonomies))
	for _, t := range d.Taxonomies {
		taxonomies = append(taxonomies, TaxonomyView{
			Code:        t.Code,
			Description: t.Description,
			IsPrimary:   t.IsPrimary,
			License:     t.License,
		})
	}

	services := make([]ServiceView, 0, len(d.Services))
	for _, s := range d.Services {
		var beneficiaries int64
		if s.BeneficiaryCount != nil {
			beneficiaries = *s.BeneficiaryCount
		}
		services = append(services, ServiceView{
			Code:             s.HCPCSCode,
			Description:      s.HCPCSDescription,
			ServiceCount:     num(s.ServiceCount),
			BeneficiaryCount: beneficiaries,
			SubmittedCharge:  num(s.SubmittedCharge),
			AllowedAmount:    num(s.AllowedAmount),
			PaymentAmount:    num(s.PaymentAmount),
			Year:             s.ServiceYear,
			PlaceOfService:   s.PlaceOfService,
		})
	}

	p := d.Provider
	return Detail{
		NPI:              p.NPI,
		ProviderName:     p.ProviderName,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		OrganizationName: p.OrganizationName,
		ProviderType:     p.ProviderType,
		Address: Address{
			Line1:       p.Address1,
			Line2:       p.Address2,
			City:        p.City,
			State:       p.State,
			PostalCode:  p.PostalCode,
			CountryCode: p.CountryCode,
		},
		Phone:           p.Phone,
		Email:           p.Email,
		DirectAddress:   p.DirectAddress,
		FHIREndpoint:    p.FHIREndpoint,
		EnumerationDate: date(p.EnumerationDate),
		LastUpdated:     date(p.LastUpdated),
		Status:          p.Status,
		Taxonomies:      taxonomies,
		Medicare: Medicare{
			Summary:  Summarize(d.Services),
			Services: services,
		},
	}
}
