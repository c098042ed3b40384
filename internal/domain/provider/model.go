package provider

import "time"

// Provider is one NPI registry record as stored in the providers table.
// Nullable columns are pointers.
type Provider struct {
	ID               int64
	NPI              string
	ProviderName     string
	FirstName        *string
	LastName         *string
	OrganizationName *string
	ProviderType     *string
	Address1         *string
	Address2         *string
	City             *string
	State            *string
	PostalCode       *string
	CountryCode      *string
	Phone            *string
	Email            *string
	DirectAddress    *string
	FHIREndpoint     *string
	EnumerationDate  *time.Time
	LastUpdated      *time.Time
	Status           *string
}

// Taxonomy is a specialty classification owned by a provider.
type Taxonomy struct {
	Code        string
	Description *string
	IsPrimary   bool
	License     *string
}

// MedicareService is one billed procedure line owned by a provider.
type MedicareService struct {
	HCPCSCode        *string
	HCPCSDescription *string
	ServiceCount     *float64
	BeneficiaryCount *int64
	SubmittedCharge  *float64
	AllowedAmount    *float64
	PaymentAmount    *float64
	ServiceYear      *int
	PlaceOfService   *string
}

// ProviderDetail is a provider with its nested collections, in row order.
type ProviderDetail struct {
	Provider
	Taxonomies []Taxonomy
	Services   []MedicareService
}

// FilterValues are the distinct values available for the search dropdowns.
type FilterValues struct {
	States      []string `json:"states"`
	Specialties []string `json:"specialties"`
}
