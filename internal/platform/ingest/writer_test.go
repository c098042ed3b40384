package ingest

import (
	"context"
	"testing"

	"github.com/doctorwapp/provider-api/internal/domain/provider"
	"github.com/doctorwapp/provider-api/internal/platform/db/dbtest"
)

func TestPGWriter(t *testing.T) {
	pool := dbtest.New(t, 15433)
	ctx := context.Background()
	w := NewPGWriter(pool)

	path := writeFixture(t, fixtureRows())
	res, err := ImportFile(ctx, path, w, Options{BatchSize: 2})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.Providers != 3 || res.Taxonomies != 6 || res.Services != 6 {
		t.Errorf("unexpected result: %+v", res)
	}

	// Importing again replaces children instead of duplicating them.
	if _, err := ImportFile(ctx, path, w, Options{}); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	var providers, services int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&providers); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicare_services`).Scan(&services); err != nil {
		t.Fatal(err)
	}
	if providers != 3 || services != 6 {
		t.Errorf("expected 3 providers and 6 services after re-import, got %d/%d", providers, services)
	}

	d, err := provider.NewRepoPG(pool).GetByNPI(ctx, "1000000002")
	if err != nil {
		t.Fatalf("GetByNPI: %v", err)
	}
	if sum := provider.Summarize(d.Services); sum.TotalPayments != 150.00 {
		t.Errorf("expected totalPayments 150.00, got %v", sum.TotalPayments)
	}
}
