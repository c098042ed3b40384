package ingest

import (
	"strings"
	"testing"
)

func sp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }
func bp(b bool) *bool { return &b }
func yp(y int32) *int32 { return &y }

// crossJoin returns the rows a provider with two taxonomies and two service
// lines produces in a flat export.
func crossJoin(npi string) []Row {
	var rows []Row
	for _, tax := range []struct {
		code    string
		primary bool
	}{{"207Q00000X", true}, {"207R00000X", false}} {
		for _, svc := range []struct {
			code    string
			payment float64
		}{{"99213", 100.50}, {"99214", 49.50}} {
			rows = append(rows, Row{
				NPI:             npi,
				ProviderName:    "PROVIDER " + npi,
				State:           sp("CA"),
				EnumerationDate: sp("2012-07-01"),
				TaxonomyCode:    sp(tax.code),
				PrimaryTaxonomy: bp(tax.primary),
				HCPCSCode:       sp(svc.code),
				PaymentAmount:   fp(svc.payment),
				ServiceYear:     yp(2022),
			})
		}
	}
	return rows
}

func TestAssembler_DeduplicatesCrossJoin(t *testing.T) {
	asm := newAssembler()
	rows := append(crossJoin("1000000001"), crossJoin("1000000002")...)

	var done []string
	for i := range rows {
		d, err := asm.add(&rows[i])
		if err != nil {
			t.Fatalf("add row %d: %v", i, err)
		}
		if d != nil {
			done = append(done, d.NPI)
			if len(d.Taxonomies) != 2 || len(d.Services) != 2 {
				t.Errorf("expected 2 taxonomies and 2 services, got %d/%d", len(d.Taxonomies), len(d.Services))
			}
			if !d.Taxonomies[0].IsPrimary || d.Taxonomies[1].IsPrimary {
				t.Errorf("unexpected primary flags: %+v", d.Taxonomies)
			}
		}
	}
	last := asm.flush()
	if last == nil || last.NPI != "1000000002" {
		t.Fatalf("expected trailing provider, got %+v", last)
	}
	if len(done) != 1 || done[0] != "1000000001" {
		t.Errorf("expected first provider emitted on npi change, got %v", done)
	}
	if last.EnumerationDate == nil || last.EnumerationDate.Format("2006-01-02") != "2012-07-01" {
		t.Errorf("unexpected enumeration date: %v", last.EnumerationDate)
	}
	if *last.Services[0].ServiceYear != 2022 {
		t.Errorf("unexpected service year: %v", *last.Services[0].ServiceYear)
	}
}

func TestAssembler_ProviderWithoutChildren(t *testing.T) {
	asm := newAssembler()
	if _, err := asm.add(&Row{NPI: "1000000009", ProviderName: "SOLO"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	d := asm.flush()
	if len(d.Taxonomies) != 0 || len(d.Services) != 0 {
		t.Errorf("expected no children, got %+v", d)
	}
}

func TestAssembler_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want string
	}{
		{"missing npi", []Row{{ProviderName: "X"}}, "without npi"},
		{"bad date", []Row{{NPI: "1", EnumerationDate: sp("07/01/2012")}}, "enumeration_date"},
		{"two primaries", []Row{
			{NPI: "1", TaxonomyCode: sp("A"), PrimaryTaxonomy: bp(true)},
			{NPI: "1", TaxonomyCode: sp("B"), PrimaryTaxonomy: bp(true)},
		}, "more than one primary"},
		{"not contiguous", []Row{{NPI: "1"}, {NPI: "2"}, {NPI: "1"}}, "not contiguous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm := newAssembler()
			var err error
			for i := range tt.rows {
				if _, err = asm.add(&tt.rows[i]); err != nil {
					break
				}
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
