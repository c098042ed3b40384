package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/doctorwapp/provider-api/internal/domain/provider"
)

// BatchStats counts what one batch wrote.
type BatchStats struct {
	Providers  int
	Taxonomies int
	Services   int
}

func (s *BatchStats) add(o BatchStats) {
	s.Providers += o.Providers
	s.Taxonomies += o.Taxonomies
	s.Services += o.Services
}

// BatchWriter persists assembled providers.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch []*provider.ProviderDetail) (BatchStats, error)
}

// PGWriter upserts providers by NPI and replaces their taxonomies and
// services, one transaction per batch.
type PGWriter struct {
	pool *pgxpool.Pool
}

func NewPGWriter(pool *pgxpool.Pool) *PGWriter {
	return &PGWriter{pool: pool}
}

const upsertProvider = `
	INSERT INTO providers (npi, provider_name, first_name, last_name, organization_name, provider_type,
		address_1, address_2, city, state, postal_code, country_code,
		phone, email, direct_address, fhir_endpoint, enumeration_date, last_updated, status)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	ON CONFLICT (npi) DO UPDATE SET
		provider_name = EXCLUDED.provider_name,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		organization_name = EXCLUDED.organization_name,
		provider_type = EXCLUDED.provider_type,
		address_1 = EXCLUDED.address_1,
		address_2 = EXCLUDED.address_2,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		postal_code = EXCLUDED.postal_code,
		country_code = EXCLUDED.country_code,
		phone = EXCLUDED.phone,
		email = EXCLUDED.email,
		direct_address = EXCLUDED.direct_address,
		fhir_endpoint = EXCLUDED.fhir_endpoint,
		enumeration_date = EXCLUDED.enumeration_date,
		last_updated = EXCLUDED.last_updated,
		status = EXCLUDED.status,
		updated_at = NOW()
	RETURNING id`

var (
	taxonomyColumns = []string{"provider_id", "taxonomy_code", "taxonomy_desc", "primary_taxonomy", "license"}
	serviceColumns  = []string{"provider_id", "hcpcs_code", "hcpcs_description", "service_count", "beneficiary_count",
		"submitted_charge", "allowed_amount", "payment_amount", "service_year", "place_of_service"}
)

func (w *PGWriter) WriteBatch(ctx context.Context, batch []*provider.ProviderDetail) (BatchStats, error) {
	var stats BatchStats
	if len(batch) == 0 {
		return stats, nil
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, len(batch))
	var taxRows, svcRows [][]interface{}
	for i, d := range batch {
		p := d.Provider
		if err := tx.QueryRow(ctx, upsertProvider,
			p.NPI, p.ProviderName, p.FirstName, p.LastName, p.OrganizationName, p.ProviderType,
			p.Address1, p.Address2, p.City, p.State, p.PostalCode, p.CountryCode,
			p.Phone, p.Email, p.DirectAddress, p.FHIREndpoint, p.EnumerationDate, p.LastUpdated, p.Status,
		).Scan(&ids[i]); err != nil {
			return stats, fmt.Errorf("upsert provider %s: %w", p.NPI, err)
		}

		for _, t := range d.Taxonomies {
			taxRows = append(taxRows, []interface{}{ids[i], t.Code, t.Description, t.IsPrimary, t.License})
		}
		for _, s := range d.Services {
			svcRows = append(svcRows, []interface{}{ids[i], s.HCPCSCode, s.HCPCSDescription,
				s.ServiceCount, s.BeneficiaryCount, s.SubmittedCharge, s.AllowedAmount, s.PaymentAmount,
				s.ServiceYear, s.PlaceOfService})
		}
	}

	for _, table := range []string{"provider_taxonomies", "medicare_services"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE provider_id = ANY($1)`, ids); err != nil {
			return stats, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if len(taxRows) > 0 {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"provider_taxonomies"}, taxonomyColumns, pgx.CopyFromRows(taxRows))
		if err != nil {
			return stats, fmt.Errorf("copy provider_taxonomies: %w", err)
		}
		stats.Taxonomies = int(n)
	}
	if len(svcRows) > 0 {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"medicare_services"}, serviceColumns, pgx.CopyFromRows(svcRows))
		if err != nil {
			return stats, fmt.Errorf("copy medicare_services: %w", err)
		}
		stats.Services = int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return BatchStats{}, fmt.Errorf("commit: %w", err)
	}
	stats.Providers = len(batch)
	return stats, nil
}
