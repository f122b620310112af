package vendors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchAggregatesAllVendors(t *testing.T) {
	var gotKey, gotHost, gotQuery string
	coles := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"query": "milk", "results": []}`))
	}))
	defer coles.Close()
	woolworths := jsonServer(t, `{"query": "milk", "total_results": 3}`)

	facade := NewFacade([]Vendor{
		{Name: "coles", BaseURL: coles.URL, APIKey: "key-1", Host: "coles.example", PageSize: 20},
		{Name: "woolworths", BaseURL: woolworths.URL, APIKey: "key-1", Host: "woolworths.example", PageSize: 100},
	}, time.Second)

	results := facade.Search(context.Background(), "milk")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, name := range []string{"coles", "woolworths"} {
		res, ok := results[name]
		if !ok {
			t.Fatalf("missing result for %s", name)
		}
		if res.Err != nil {
			t.Fatalf("unexpected error for %s: %v", name, res.Err)
		}
		if len(res.Payload) == 0 {
			t.Fatalf("empty payload for %s", name)
		}
	}
	if gotKey != "key-1" || gotHost != "coles.example" {
		t.Fatalf("vendor headers not sent: key=%q host=%q", gotKey, gotHost)
	}
	if gotQuery != "milk" {
		t.Fatalf("query parameter not sent: %q", gotQuery)
	}
}

func TestSearchPartialFailure(t *testing.T) {
	up := jsonServer(t, `{"results": [1, 2]}`)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close() // unreachable

	facade := NewFacade([]Vendor{
		{Name: "up", BaseURL: up.URL},
		{Name: "down", BaseURL: down.URL},
	}, time.Second)

	results := facade.Search(context.Background(), "milk")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["up"].Err != nil {
		t.Fatalf("healthy vendor errored: %v", results["up"].Err)
	}
	if results["down"].Err == nil {
		t.Fatal("unreachable vendor should carry an error entry")
	}
	if AllFailed(results) {
		t.Fatal("AllFailed must be false when one vendor succeeded")
	}
}

func TestSearchTimeoutDoesNotBlockOthers(t *testing.T) {
	fast := jsonServer(t, `{"ok": true}`)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer slow.Close()

	facade := NewFacade([]Vendor{
		{Name: "fast", BaseURL: fast.URL},
		{Name: "slow", BaseURL: slow.URL},
	}, 100*time.Millisecond)

	start := time.Now()
	results := facade.Search(context.Background(), "milk")
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("search did not respect the per-vendor timeout, took %v", elapsed)
	}
	if results["fast"].Err != nil {
		t.Fatalf("fast vendor errored: %v", results["fast"].Err)
	}
	if results["slow"].Err == nil {
		t.Fatal("slow vendor should have timed out")
	}
}

func TestSearchRejectsBadResponses(t *testing.T) {
	badStatus := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "nope"}`, http.StatusForbidden)
	}))
	defer badStatus.Close()
	badBody := jsonServer(t, `<html>not json</html>`)

	facade := NewFacade([]Vendor{
		{Name: "forbidden", BaseURL: badStatus.URL},
		{Name: "mangled", BaseURL: badBody.URL},
	}, time.Second)

	results := facade.Search(context.Background(), "milk")
	if results["forbidden"].Err == nil || !strings.Contains(results["forbidden"].Err.Error(), "status 403") {
		t.Fatalf("expected status error, got %v", results["forbidden"].Err)
	}
	if results["mangled"].Err == nil || !strings.Contains(results["mangled"].Err.Error(), "malformed") {
		t.Fatalf("expected malformed body error, got %v", results["mangled"].Err)
	}
	if !AllFailed(results) {
		t.Fatal("AllFailed must be true when every vendor errored")
	}
}

func TestBuildURLEncodesQuery(t *testing.T) {
	v := Vendor{Name: "coles", BaseURL: "https://coles.example/product-search/", PageSize: 20}
	got, err := buildURL(v, "full cream milk")
	if err != nil {
		t.Fatalf("buildURL: %v", err)
	}
	for _, part := range []string{"page=1", "page_size=20", "query=full+cream+milk"} {
		if !strings.Contains(got, part) {
			t.Fatalf("url %q missing %q", got, part)
		}
	}
}
