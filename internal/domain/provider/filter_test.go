package provider

import (
	"strings"
	"testing"
)

func TestTranslate_Empty(t *testing.T) {
	q := Translate(SearchParams{})
	if q.Predicate.Where() != "1=1" {
		t.Errorf("expected match-all predicate, got %s", q.Predicate.Where())
	}
	if q.Page.Page != 1 || q.Page.Limit != 10 || q.Page.Offset() != 0 {
		t.Errorf("expected default page 1/10, got %+v", q.Page)
	}
	if q.Complex {
		t.Error("empty search must not be complex")
	}
}

func TestTranslate_StatePagination(t *testing.T) {
	q := Translate(SearchParams{State: "CA", Limit: 5, Page: 2})

	if q.Predicate.Where() != "p.state = $1" {
		t.Errorf("unexpected predicate: %s", q.Predicate.Where())
	}
	if args := q.Predicate.Args(); len(args) != 1 || args[0] != "CA" {
		t.Errorf("unexpected args: %v", args)
	}
	if q.Page.Offset() != 5 || q.Page.Limit != 5 || q.Page.Page != 2 {
		t.Errorf("expected skip 5 take 5, got %+v offset %d", q.Page, q.Page.Offset())
	}
	if !strings.Contains(q.Predicate.DataSQL(), "ORDER BY p.provider_name ASC, p.npi ASC") {
		t.Errorf("expected name ordering, got %s", q.Predicate.DataSQL())
	}
}

func TestTranslate_NonPositivePaging(t *testing.T) {
	q := Translate(SearchParams{Page: -3, Limit: 0})
	if q.Page.Page != 1 || q.Page.Limit != 10 {
		t.Errorf("expected defaults, got %+v", q.Page)
	}
}

func TestTranslate_LimitNotCapped(t *testing.T) {
	q := Translate(SearchParams{Limit: 5000})
	if q.Page.Limit != 5000 {
		t.Errorf("expected limit 5000, got %d", q.Page.Limit)
	}
}

func TestTranslate_FreeText(t *testing.T) {
	q := Translate(SearchParams{Query: "smith"})
	want := "(p.provider_name ILIKE $1 OR p.organization_name ILIKE $1)"
	if q.Predicate.Where() != want {
		t.Errorf("expected %q, got %q", want, q.Predicate.Where())
	}
	if q.Predicate.Args()[0] != "%smith%" {
		t.Errorf("unexpected pattern: %v", q.Predicate.Args()[0])
	}
}

func TestTranslate_SpecialtyRequiresPrimary(t *testing.T) {
	q := Translate(SearchParams{Specialty: "207Q00000X", ProviderType: "individual"})
	clauses := q.Predicate.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %v", clauses)
	}
	if clauses[0] != "p.provider_type = $1" {
		t.Errorf("unexpected provider type clause: %s", clauses[0])
	}
	want := "EXISTS (SELECT 1 FROM provider_taxonomies pt WHERE pt.provider_id = p.id AND pt.taxonomy_code = $2 AND pt.primary_taxonomy = TRUE)"
	if clauses[1] != want {
		t.Errorf("expected %q, got %q", want, clauses[1])
	}
	if q.Complex {
		t.Error("specialty search must not be complex")
	}
}

func TestTranslate_MedicareBoundsShareOneExists(t *testing.T) {
	q := Translate(SearchParams{
		State:            "NY",
		MinServiceCount:  fp(10),
		MaxServiceCount:  fp(100),
		MinPaymentAmount: fp(50),
		MaxPaymentAmount: fp(500),
		HCPCSCode:        "99213",
		ServiceYear:      ip(2022),
	})

	clauses := q.Predicate.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected state clause plus one EXISTS, got %v", clauses)
	}
	want := "EXISTS (SELECT 1 FROM medicare_services ms WHERE ms.provider_id = p.id" +
		" AND ms.service_count >= $2 AND ms.service_count <= $3" +
		" AND ms.payment_amount >= $4 AND ms.payment_amount <= $5" +
		" AND ms.hcpcs_code = $6 AND ms.service_year = $7)"
	if clauses[1] != want {
		t.Errorf("expected %q\n got %q", want, clauses[1])
	}
	if len(q.Predicate.Args()) != 7 {
		t.Errorf("expected 7 args, got %v", q.Predicate.Args())
	}
	if !q.Complex {
		t.Error("expected complex search")
	}
}

func TestTranslate_ZeroBoundIsApplied(t *testing.T) {
	q := Translate(SearchParams{MinPaymentAmount: fp(0)})
	if !strings.Contains(q.Predicate.Where(), "ms.payment_amount >= $1") {
		t.Errorf("expected zero bound to be applied, got %s", q.Predicate.Where())
	}
}

func TestTranslate_HasMedicare(t *testing.T) {
	q := Translate(SearchParams{HasMedicare: true})
	if q.Predicate.Where() != "EXISTS (SELECT 1 FROM medicare_services ms WHERE ms.provider_id = p.id)" {
		t.Errorf("unexpected predicate: %s", q.Predicate.Where())
	}
	if !q.Complex {
		t.Error("has_medicare search must be complex")
	}

	q = Translate(SearchParams{HasMedicare: true, HCPCSCode: "99214"})
	if n := strings.Count(q.Predicate.Where(), "EXISTS"); n != 1 {
		t.Errorf("expected a single EXISTS, got %d in %s", n, q.Predicate.Where())
	}
}

func TestSearchParams_Applied(t *testing.T) {
	got := SearchParams{State: "CA", HasMedicare: true, ServiceYear: ip(2021)}.Applied()
	want := []string{"state", "has_medicare", "serviceYear"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}
