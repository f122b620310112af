package authority

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// The authority owns credential verification. It is consumed through a
// single stored function and treated as opaque: how it checks the digest is
// its business.
const verifyQuery = `select public.get_company_details_by_owner($1, $2)`

var (
	// ErrInvalidCredentials means the authority answered "no match". It is
	// an expected outcome, not a system failure. The authority does not say
	// whether the username or the password was wrong, and the ambiguity is
	// preserved here to avoid a username-enumeration side channel.
	ErrInvalidCredentials = errors.New("authority: invalid credentials")

	// ErrUnavailable means the authority could not be reached or answered
	// with a broken transport envelope.
	ErrUnavailable = errors.New("authority: unavailable")
)

const defaultTimeout = 10 * time.Second

// Client verifies credentials against the remote authority.
type Client struct {
	db      *sql.DB
	timeout time.Duration
}

// NewClient wraps an open database handle. A non-positive timeout falls
// back to the default.
func NewClient(db *sql.DB, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{db: db, timeout: timeout}
}

// Verify sends username and digest to the authority and returns its raw
// structured payload. A NULL answer maps to ErrInvalidCredentials; any
// transport or protocol failure maps to ErrUnavailable wrapping the cause.
func (c *Client) Verify(ctx context.Context, username, digest string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var raw []byte
	err := c.db.QueryRowContext(ctx, verifyQuery, username, digest).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrInvalidCredentials
	}
	return json.RawMessage(raw), nil
}

// Ping reports whether the authority is reachable; used by the readiness
// probe.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.db.PingContext(ctx)
}
