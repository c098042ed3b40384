package provider

import (
	"github.com/doctorwapp/provider-api/internal/platform/search"
	"github.com/doctorwapp/provider-api/pkg/pagination"
)

// SearchParams are the optional filters accepted by the search endpoint.
// Empty strings and nil pointers mean "not supplied".
type SearchParams struct {
	Query        string
	State        string
	Specialty    string
	ProviderType string
	HasMedicare  bool

	MinServiceCount  *float64
	MaxServiceCount  *float64
	MinPaymentAmount *float64
	MaxPaymentAmount *float64
	HCPCSCode        string
	ServiceYear      *int

	Page  int
	Limit int
}

// Query is a translated search: the predicate with its ordering, the
// normalized page, and whether the search is subject to the complex-query
// time budget.
type Query struct {
	Predicate *search.Query
	Page      pagination.Params
	Complex   bool
}

const searchOrder = "p.provider_name ASC, p.npi ASC"

// hasServiceFilter reports whether any clause targets individual Medicare
// service lines.
func (p SearchParams) hasServiceFilter() bool {
	return p.MinServiceCount != nil || p.MaxServiceCount != nil ||
		p.MinPaymentAmount != nil || p.MaxPaymentAmount != nil ||
		p.HCPCSCode != "" || p.ServiceYear != nil
}

// Applied lists the names of the supplied filters, for logging.
func (p SearchParams) Applied() []string {
	var names []string
	add := func(ok bool, name string) {
		if ok {
			names = append(names, name)
		}
	}
	add(p.Query != "", "query")
	add(p.State != "", "state")
	add(p.Specialty != "", "specialty")
	add(p.ProviderType != "", "provider_type")
	add(p.HasMedicare, "has_medicare")
	add(p.MinServiceCount != nil, "minServiceCount")
	add(p.MaxServiceCount != nil, "maxServiceCount")
	add(p.MinPaymentAmount != nil, "minPaymentAmount")
	add(p.MaxPaymentAmount != nil, "maxPaymentAmount")
	add(p.HCPCSCode != "", "hcpcsCode")
	add(p.ServiceYear != nil, "serviceYear")
	return names
}

// Translate builds the provider predicate for p. Every supplied filter
// becomes one AND-ed clause. All Medicare service clauses share a single
// EXISTS, so one service line must satisfy every supplied bound.
func Translate(p SearchParams) Query {
	q := search.NewQuery("providers p", searchCols)

	if p.Query != "" {
		q.AddContainsAny(p.Query, "p.provider_name", "p.organization_name")
	}
	if p.State != "" {
		q.AddEq("p.state", p.State)
	}
	if p.ProviderType != "" {
		q.AddEq("p.provider_type", p.ProviderType)
	}
	if p.Specialty != "" {
		q.AddExists("provider_taxonomies pt", "pt.provider_id = p.id", func(sub *search.Query) {
			sub.AddEq("pt.taxonomy_code", p.Specialty)
			sub.Add("pt.primary_taxonomy = TRUE")
		})
	}

	switch {
	case p.hasServiceFilter():
		q.AddExists("medicare_services ms", "ms.provider_id = p.id", func(sub *search.Query) {
			if p.MinServiceCount != nil {
				sub.AddGte("ms.service_count", *p.MinServiceCount)
			}
			if p.MaxServiceCount != nil {
				sub.AddLte("ms.service_count", *p.MaxServiceCount)
			}
			if p.MinPaymentAmount != nil {
				sub.AddGte("ms.payment_amount", *p.MinPaymentAmount)
			}
			if p.MaxPaymentAmount != nil {
				sub.AddLte("ms.payment_amount", *p.MaxPaymentAmount)
			}
			if p.HCPCSCode != "" {
				sub.AddEq("ms.hcpcs_code", p.HCPCSCode)
			}
			if p.ServiceYear != nil {
				sub.AddEq("ms.service_year", *p.ServiceYear)
			}
		})
	case p.HasMedicare:
		q.AddExists("medicare_services ms", "ms.provider_id = p.id", nil)
	}

	q.OrderBy(searchOrder)

	return Query{
		Predicate: q,
		Page:      pagination.New(p.Page, p.Limit),
		Complex:   p.HasMedicare || p.hasServiceFilter(),
	}
}
