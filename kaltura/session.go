package kaltura

import (
	"context"
	"fmt"
)

// Session types the endpoint understands.
const (
	SessionTypeUser  = 0
	SessionTypeAdmin = 2
)

// AdminPrivileges is the privilege string the admin tooling runs with: full
// access plus entitlement bypass, which category operations need.
const AdminPrivileges = "all:*,disableentitlement"

// DefaultSessionExpiry is one day, in seconds.
const DefaultSessionExpiry = 86400

// SessionOptions controls session.start beyond the required credentials.
type SessionOptions struct {
	// UserID is recorded as the acting user; empty is accepted for admin
	// sessions.
	UserID string
	// Expiry in seconds; 0 means DefaultSessionExpiry.
	Expiry int
	// Privileges string; empty means AdminPrivileges.
	Privileges string
}

// StartSession opens an admin session and installs the returned KS on the
// client so every later call carries it.
func (c *Client) StartSession(ctx context.Context, adminSecret string, opts SessionOptions) (string, error) {
	if opts.Expiry == 0 {
		opts.Expiry = DefaultSessionExpiry
	}
	if opts.Privileges == "" {
		opts.Privileges = AdminPrivileges
	}

	p := Params{}
	p.Set("secret", adminSecret)
	p.Set("userId", opts.UserID)
	p.SetIntAlways("type", SessionTypeAdmin)
	p.SetIntAlways("partnerId", c.config.PartnerID)
	p.SetIntAlways("expiry", opts.Expiry)
	p.Set("privileges", opts.Privileges)

	var ks string
	if err := c.request(ctx, "session", "start", p, &ks); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	if ks == "" {
		return "", fmt.Errorf("start session: no session token returned")
	}
	c.SetKS(ks)
	return ks, nil
}

// EndSession expires the current KS and forgets it.
func (c *Client) EndSession(ctx context.Context) error {
	if c.KS() == "" {
		return ErrNoSession
	}
	if err := c.request(ctx, "session", "end", Params{}, nil); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	c.SetKS("")
	return nil
}

// Ping exercises the session with the cheapest call the API has.
func (c *Client) Ping(ctx context.Context) error {
	var ok bool
	if err := c.request(ctx, "system", "ping", Params{}, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("system.ping returned false")
	}
	return nil
}
