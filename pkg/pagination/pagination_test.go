package pagination

import "testing"

func TestNew_Defaults(t *testing.T) {
	p := New(0, 0)
	if p.Page != DefaultPage {
		t.Errorf("expected default page %d, got %d", DefaultPage, p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset())
	}
}

func TestNew_NegativeValues(t *testing.T) {
	p := New(-3, -1)
	if p.Page != 1 || p.Limit != 10 {
		t.Errorf("expected 1/10, got %d/%d", p.Page, p.Limit)
	}
}

func TestNew_NoUpperBound(t *testing.T) {
	p := New(1, 5000)
	if p.Limit != 5000 {
		t.Errorf("expected limit 5000 to be kept, got %d", p.Limit)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 5, 5},
		{3, 25, 50},
		{10, 1, 9},
	}
	for _, tt := range tests {
		if got := New(tt.page, tt.limit).Offset(); got != tt.want {
			t.Errorf("page=%d limit=%d: expected offset %d, got %d", tt.page, tt.limit, tt.want, got)
		}
	}
}

func TestHasNext(t *testing.T) {
	p := New(2, 10)
	if !p.HasNext(25) {
		t.Error("expected next page for total 25")
	}
	if p.HasNext(20) {
		t.Error("expected no next page for total 20")
	}
}

func TestTotalPages(t *testing.T) {
	p := New(1, 10)
	if p.TotalPages(0) != 0 {
		t.Errorf("expected 0 pages, got %d", p.TotalPages(0))
	}
	if p.TotalPages(21) != 3 {
		t.Errorf("expected 3 pages, got %d", p.TotalPages(21))
	}
}
