package tcgapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carddex/internal/services"
	"carddex/internal/triangulate/tcgapi"
)

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := tcgapi.New("key", "", time.Second)
	if err == nil {
		t.Fatal("expected error when base url missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSearchByNameSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "key" {
			t.Fatalf("expected api key header, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != `name:"charizard"` {
			t.Fatalf("unexpected query: %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "25" {
			t.Fatalf("unexpected page size: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "1000")
		w.Header().Set("X-RateLimit-Remaining", "40")
		_, _ = w.Write([]byte(`{"data":[{"id":"base1-4","name":"Charizard","number":"4","set":{"id":"base1","name":"Base","printedTotal":102}}],"count":1}`))
	}))
	t.Cleanup(server.Close)

	client, err := tcgapi.New("key", server.URL, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchByName(context.Background(), "charizard", 25)
	if err != nil {
		t.Fatalf("SearchByName returned error: %v", err)
	}
	if len(resp.Cards) != 1 || resp.Cards[0].ID != "base1-4" {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.Cards[0].Set.PrintedTotal != 102 {
		t.Fatalf("expected set printed total 102, got %d", resp.Cards[0].Set.PrintedTotal)
	}
	if !resp.Quota.NearlyExhausted(0.1) {
		t.Fatalf("expected quota nearly exhausted: %#v", resp.Quota)
	}
}

func TestSearchByNameHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := tcgapi.New("", server.URL, time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchByName(context.Background(), "fail", 5)
	if err == nil {
		t.Fatal("expected error when provider returns non-200")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestSearchByNameEmptyName(t *testing.T) {
	client, err := tcgapi.New("", "https://example.com", time.Second)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchByName(context.Background(), "  ", 5)
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQuotaNearlyExhausted(t *testing.T) {
	cases := []struct {
		quota    tcgapi.QuotaStatus
		fraction float64
		want     bool
	}{
		{tcgapi.QuotaStatus{Remaining: 40, Limit: 1000}, 0.1, true},
		{tcgapi.QuotaStatus{Remaining: 400, Limit: 1000}, 0.1, false},
		{tcgapi.QuotaStatus{}, 0.1, false},
	}
	for _, tc := range cases {
		if got := tc.quota.NearlyExhausted(tc.fraction); got != tc.want {
			t.Fatalf("NearlyExhausted(%v, %v) = %v, want %v", tc.quota, tc.fraction, got, tc.want)
		}
	}
}
