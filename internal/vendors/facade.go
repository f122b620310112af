package vendors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"smartshop.org/internal/obs"
)

// Vendor describes one third-party product-price endpoint. The RapidAPI
// convention applies: the key travels in x-rapidapi-key and the host name in
// x-rapidapi-host.
type Vendor struct {
	Name     string
	BaseURL  string
	APIKey   string
	Host     string
	PageSize int
}

// Result is one vendor's settled answer for a query. Payload stays opaque
// JSON: upstream schemas are not contractually guaranteed, so shape
// validation is out of scope here.
type Result struct {
	Vendor  string          `json:"vendor"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Err     error           `json:"-"`
}

const (
	defaultTimeout  = 8 * time.Second
	defaultPageSize = 20
)

// Facade fans a single query out to every configured vendor concurrently
// and collects the raw answers keyed by vendor name.
type Facade struct {
	vendors []Vendor
	client  *http.Client
	timeout time.Duration
}

// NewFacade builds the facade. A non-positive timeout falls back to the
// default; the timeout applies per vendor call, not to the whole search.
func NewFacade(list []Vendor, timeout time.Duration) *Facade {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Facade{
		vendors: list,
		client:  &http.Client{},
		timeout: timeout,
	}
}

// Vendors returns the configured vendor names.
func (f *Facade) Vendors() []string {
	names := make([]string, 0, len(f.vendors))
	for _, v := range f.vendors {
		names = append(names, v.Name)
	}
	return names
}

// Search queries every vendor concurrently and returns once all calls have
// settled. A failed or timed-out vendor contributes an error entry for that
// vendor only; partial results are a valid outcome. The map is keyed by
// vendor name, arrival order carries no meaning.
func (f *Facade) Search(ctx context.Context, query string) map[string]Result {
	results := make(chan Result, len(f.vendors))

	var wg sync.WaitGroup
	for _, v := range f.vendors {
		wg.Add(1)
		go func(v Vendor) {
			defer wg.Done()

			start := time.Now()
			payload, err := f.fetch(ctx, v, query)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			obs.ObserveVendorCall(v.Name, outcome, time.Since(start))

			results <- Result{Vendor: v.Name, Payload: payload, Err: err}
		}(v)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	settled := make(map[string]Result, len(f.vendors))
	for res := range results {
		settled[res.Vendor] = res
	}
	return settled
}

// AllFailed reports whether every vendor in the result map errored; only
// then does a search escalate to a whole-request failure.
func AllFailed(results map[string]Result) bool {
	if len(results) == 0 {
		return true
	}
	for _, res := range results {
		if res.Err == nil {
			return false
		}
	}
	return true
}

func (f *Facade) fetch(ctx context.Context, v Vendor, query string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	endpoint, err := buildURL(v, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-rapidapi-key", v.APIKey)
	req.Header.Set("x-rapidapi-host", v.Host)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor %s: %w", v.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("vendor %s: unexpected status %d", v.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vendor %s: read body: %w", v.Name, err)
	}
	if !json.Valid(body) {
		return nil, errors.New("vendor " + v.Name + ": malformed JSON body")
	}
	return json.RawMessage(body), nil
}

func buildURL(v Vendor, query string) (string, error) {
	u, err := url.Parse(v.BaseURL)
	if err != nil {
		return "", fmt.Errorf("vendor %s: bad base URL: %w", v.Name, err)
	}
	pageSize := v.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	q := u.Query()
	q.Set("page", "1")
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("query", query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
