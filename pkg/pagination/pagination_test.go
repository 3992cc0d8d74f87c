package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := Normalize(Params{})
	if p.Page != 1 {
		t.Fatalf("expected page 1, got %d", p.Page)
	}
	if p.PerPage != DefaultPerPage {
		t.Fatalf("expected default per_page %d, got %d", DefaultPerPage, p.PerPage)
	}
}

func TestNormalizeClampsPerPage(t *testing.T) {
	p := Normalize(Params{Page: 3, PerPage: MaxPerPage + 50})
	if p.PerPage != MaxPerPage {
		t.Fatalf("expected per_page %d, got %d", MaxPerPage, p.PerPage)
	}
	if p.Page != 3 {
		t.Fatalf("page should pass through, got %d", p.Page)
	}
}

func TestNormalizeNegativeInputs(t *testing.T) {
	p := Normalize(Params{Page: -4, PerPage: -1})
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Fatalf("unexpected params %+v", p)
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(Params{PerPage: 10}); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, perPage, want int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{5, 10, 40},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Offset(Params{Page: tt.page, PerPage: tt.perPage}); got != tt.want {
			t.Fatalf("page %d per_page %d: expected offset %d, got %d", tt.page, tt.perPage, tt.want, got)
		}
	}
}
