package redis

import "strings"

// Every key lives under drps:<area>:..., so one redis database can be shared
// with other tenants and flushed per area.
const (
	keyNamespace      = "drps"
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	sessionPrefix     = "session"
	cartPrefix        = "cart"
)

func (c *Client) IdempotencyKey(scope, id string) string {
	return joinKey(idempotencyPrefix, scope, id)
}

func (c *Client) RateLimitKey(scope string) string {
	return joinKey(rateLimitPrefix, scope)
}

// AccessSessionKey is where an admin session lives, keyed by the token jti.
func (c *Client) AccessSessionKey(accessID string) string {
	return joinKey(sessionPrefix, "access", accessID)
}

// CartKey addresses one entry of a shopper's cart, e.g. "cart" or "coupon".
func (c *Client) CartKey(sessionID, name string) string {
	return joinKey(cartPrefix, sessionID, name)
}

func joinKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
