package ingest

import (
	"fmt"

	"github.com/doctorwapp/provider-api/internal/domain/provider"
)

// assembler folds contiguous rows of one NPI into a ProviderDetail,
// dropping the duplicates produced by the taxonomy x service cross join.
type assembler struct {
	cur      *provider.ProviderDetail
	taxa     map[string]bool
	services map[string]bool
	primary  bool
	finished map[string]bool
}

func newAssembler() *assembler {
	return &assembler{finished: make(map[string]bool)}
}

// add folds r in. When r starts a new NPI the previous provider is returned.
func (a *assembler) add(r *Row) (*provider.ProviderDetail, error) {
	if r.NPI == "" {
		return nil, fmt.Errorf("row without npi")
	}

	var done *provider.ProviderDetail
	if a.cur == nil || a.cur.NPI != r.NPI {
		if a.finished[r.NPI] {
			return nil, fmt.Errorf("npi %s: rows are not contiguous", r.NPI)
		}
		done = a.flush()

		p, err := r.provider()
		if err != nil {
			return nil, err
		}
		a.cur = &provider.ProviderDetail{Provider: p}
		a.taxa = make(map[string]bool)
		a.services = make(map[string]bool)
		a.primary = false
	}

	if r.TaxonomyCode != nil && !a.taxa[*r.TaxonomyCode] {
		a.taxa[*r.TaxonomyCode] = true
		isPrimary := deref(r.PrimaryTaxonomy)
		if isPrimary {
			if a.primary {
				return nil, fmt.Errorf("npi %s: more than one primary taxonomy", r.NPI)
			}
			a.primary = true
		}
		a.cur.Taxonomies = append(a.cur.Taxonomies, provider.Taxonomy{
			Code:        *r.TaxonomyCode,
			Description: r.TaxonomyDesc,
			IsPrimary:   isPrimary,
			License:     r.License,
		})
	}

	if r.hasService() {
		if key := serviceKey(r); !a.services[key] {
			a.services[key] = true
			a.cur.Services = append(a.cur.Services, r.service())
		}
	}

	return done, nil
}

// flush returns the provider being assembled, if any.
func (a *assembler) flush() *provider.ProviderDetail {
	done := a.cur
	if done != nil {
		a.finished[done.NPI] = true
	}
	a.cur = nil
	return done
}
