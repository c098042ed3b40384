package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/doctorwapp/provider-api/internal/platform/search"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// RepoPG reads providers from Postgres. Reads issued for one request run on
// separate pool connections.
type RepoPG struct{ db queryable }

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{db: pool}
}

const searchCols = `p.id, p.npi, p.provider_name, p.first_name, p.last_name, p.organization_name,
	p.provider_type, p.address_1, p.address_2, p.city, p.state, p.postal_code, p.country_code,
	p.phone, p.email, p.direct_address, p.fhir_endpoint, p.enumeration_date, p.last_updated, p.status`

const taxonomyCols = `taxonomy_code, taxonomy_desc, primary_taxonomy, license`

// Numeric columns are read as float8 so NUMERIC values scan into float64.
const serviceCols = `hcpcs_code, hcpcs_description, service_count::float8, beneficiary_count,
	submitted_charge::float8, allowed_amount::float8, payment_amount::float8,
	service_year, place_of_service`

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.NPI, &p.ProviderName, &p.FirstName, &p.LastName, &p.OrganizationName,
		&p.ProviderType, &p.Address1, &p.Address2, &p.City, &p.State, &p.PostalCode, &p.CountryCode,
		&p.Phone, &p.Email, &p.DirectAddress, &p.FHIREndpoint, &p.EnumerationDate, &p.LastUpdated, &p.Status)
	return &p, err
}

func (r *RepoPG) Search(ctx context.Context, pred *search.Query, limit, offset int) ([]*Provider, int, error) {
	var (
		providers []*Provider
		total     int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.db.Query(gctx, pred.DataSQL(), pred.DataArgs(limit, offset)...)
		if err != nil {
			return fmt.Errorf("search providers: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProvider(rows)
			if err != nil {
				return fmt.Errorf("scan provider: %w", err)
			}
			providers = append(providers, p)
		}
		return rows.Err()
	})
	g.Go(func() error {
		if err := r.db.QueryRow(gctx, pred.CountSQL(), pred.CountArgs()...).Scan(&total); err != nil {
			return fmt.Errorf("count providers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return providers, total, nil
}

func (r *RepoPG) GetByNPI(ctx context.Context, npi string) (*ProviderDetail, error) {
	p, err := scanProvider(r.db.QueryRow(ctx,
		`SELECT `+searchCols+` FROM providers p WHERE p.npi = $1`, npi))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get provider %s: %w", npi, err)
	}

	detail := &ProviderDetail{Provider: *p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Taxonomies, err = r.taxonomies(gctx, p.ID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Services, err = r.services(gctx, p.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *RepoPG) taxonomies(ctx context.Context, providerID int64) ([]Taxonomy, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taxonomyCols+` FROM provider_taxonomies
		WHERE provider_id = $1 ORDER BY id`, providerID)
	if err != nil {
		return nil, fmt.Errorf("list taxonomies: %w", err)
	}
	defer rows.Close()

	var out []Taxonomy
	for rows.Next() {
		var t Taxonomy
		if err := rows.Scan(&t.Code, &t.Description, &t.IsPrimary, &t.License); err != nil {
			return nil, fmt.Errorf("scan taxonomy: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *RepoPG) services(ctx context.Context, providerID int64) ([]MedicareService, error) {
	rows, err := r.db.Query(ctx, `SELECT `+serviceCols+` FROM medicare_services
		WHERE provider_id = $1 ORDER BY id`, providerID)
	if err != nil {
		return nil, fmt.Errorf("list medicare services: %w", err)
	}
	defer rows.Close()

	var out []MedicareService
	for rows.Next() {
		var s MedicareService
		if err := rows.Scan(&s.HCPCSCode, &s.HCPCSDescription, &s.ServiceCount, &s.BeneficiaryCount,
			&s.SubmittedCharge, &s.AllowedAmount, &s.PaymentAmount,
			&s.ServiceYear, &s.PlaceOfService); err != nil {
			return nil, fmt.Errorf("scan medicare service: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *RepoPG) ListFilterValues(ctx context.Context) (*FilterValues, error) {
	fv := &FilterValues{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fv.States, err = r.distinct(gctx, `SELECT DISTINCT state FROM providers
			WHERE state IS NOT NULL ORDER BY state`)
		return err
	})
	g.Go(func() error {
		var err error
		fv.Specialties, err = r.distinct(gctx, `SELECT DISTINCT taxonomy_code FROM provider_taxonomies
			WHERE primary_taxonomy = TRUE AND taxonomy_code IS NOT NULL ORDER BY taxonomy_code`)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fv, nil
}

func (r *RepoPG) distinct(ctx context.Context, sql string) ([]string, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list filter values: %w", err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan filter values: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// Inventory summarizes what is loaded, for operator checks.
type Inventory struct {
	Providers  int
	Services   int
	Taxonomies int
	// Sample is a provider billing at least one service, or nil if none is loaded.
	Sample *ProviderDetail
}

func (r *RepoPG) Inventory(ctx context.Context) (*Inventory, error) {
	inv := &Inventory{}
	counts := []struct {
		table string
		dst   *int
	}{
		{"providers", &inv.Providers},
		{"medicare_services", &inv.Services},
		{"provider_taxonomies", &inv.Taxonomies},
	}
	for _, c := range counts {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	var npi string
	err := r.db.QueryRow(ctx, `SELECT p.npi FROM providers p
		WHERE EXISTS (SELECT 1 FROM medicare_services ms WHERE ms.provider_id = p.id AND ms.service_count > 0)
		ORDER BY p.npi LIMIT 1`).Scan(&npi)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return inv, nil
	case err != nil:
		return nil, fmt.Errorf("sample provider: %w", err)
	}

	if inv.Sample, err = r.GetByNPI(ctx, npi); err != nil {
		return nil, err
	}
	return inv, nil
}
