package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestGenerateTicketCode(t *testing.T) {
	pattern := regexp.MustCompile(`^LUME-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateTicketCode()
		if !pattern.MatchString(code) {
			t.Fatalf("Code %q does not match expected format", code)
		}
		seen[code] = true
	}
	// 100 draws from a 32^8 space colliding would mean the generator
	// is broken, not unlucky.
	if len(seen) != 100 {
		t.Errorf("Expected 100 distinct codes, got %d", len(seen))
	}
}

func TestNormalizeTicketCode(t *testing.T) {
	if got := NormalizeTicketCode("  lume-ab23-cd45 "); got != "LUME-AB23-CD45" {
		t.Errorf("NormalizeTicketCode = %q", got)
	}
}

func TestGenerateMessageID(t *testing.T) {
	pattern := regexp.MustCompile(`^lume_\d{9}$`)
	if id := GenerateMessageID("lume"); !pattern.MatchString(id) {
		t.Errorf("Message id %q does not match expected format", id)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url       string
		wantPage  int
		wantLimit int
	}{
		{"/events", 1, 20},
		{"/events?page=3&limit=10", 3, 10},
		{"/events?page=0&limit=-5", 1, 20},
		{"/events?page=abc&limit=xyz", 1, 20},
		{"/events?limit=500", 1, 100},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.url, nil)
		p := ParsePagination(req)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
			t.Errorf("%s: got page=%d limit=%d, want page=%d limit=%d",
				tc.url, p.Page, p.Limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestPaginationOffset(t *testing.T) {
	p := Pagination{Page: 3, Limit: 25}
	if p.Offset() != 50 {
		t.Errorf("Offset = %d, want 50", p.Offset())
	}
}
