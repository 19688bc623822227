package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchParsesCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "brussels park" {
			t.Errorf("query = %q, want %q", got, "brussels park")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name": "Parc de Bruxelles, Brussels", "lat": "50.8452", "lon": "4.3637"},
			{"display_name": "Park somewhere", "lat": "not-a-number", "lon": "4.0"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	places, err := c.Search(context.Background(), "brussels park")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("places = %d, want 1 (unparseable coordinates skipped)", len(places))
	}
	if places[0].Label != "Parc de Bruxelles, Brussels" || places[0].Lat != 50.8452 {
		t.Errorf("place = %+v", places[0])
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient("http://unused", nil)
	places, err := c.Search(context.Background(), "")
	if err != nil || places != nil {
		t.Errorf("empty query should be a cheap no-op, got %v, %v", places, err)
	}
}
