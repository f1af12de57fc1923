// Package token implements the self-issued session token format:
//
//	Bearer_<base64(JSON{userId, email, timestamp, random})>
//
// Tokens are issued and verified entirely on-device; there is no server to
// validate them against. Decoding failures are non-fatal and are reported
// as a nil result, never as an error.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix marks a value as a session token.
const Prefix = "Bearer_"

// DefaultTTL is how long a token is considered fresh after issuance.
// Expiry is advisory: callers decide whether to enforce it.
const DefaultTTL = 24 * time.Hour

// Claims is the payload embedded in a token. Timestamp is issuance time in
// Unix milliseconds; Random is a nonce that makes every issuance unique.
type Claims struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"`
	Random    string `json:"random"`
}

// IssuedAt returns the embedded issuance time.
func (c *Claims) IssuedAt() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Codec issues and decodes session tokens.
type Codec struct {
	ttl time.Duration
	now func() time.Time
}

// NewCodec returns a Codec with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func NewCodec(ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{ttl: ttl, now: time.Now}
}

// Issue builds a token for the given user. Two calls with identical inputs
// produce different tokens (timestamp and nonce vary), so tokens must not
// be compared for equality across issuances.
func (c *Codec) Issue(userID int64, email string) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Timestamp: c.now().UnixMilli(),
		Random:    uuid.NewString(),
	}

	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	return Prefix + base64.StdEncoding.EncodeToString(data), nil
}

// Decode extracts the claims from a token. It returns nil on any malformed
// input: a missing prefix, bad base64, or invalid JSON.
func (c *Codec) Decode(tok string) *Claims {
	raw := strings.TrimPrefix(tok, Prefix)

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil
	}
	return &claims
}

// IsExpired reports whether the token's embedded timestamp is older than
// the TTL. Undecodable tokens count as expired.
func (c *Codec) IsExpired(tok string) bool {
	claims := c.Decode(tok)
	if claims == nil {
		return true
	}
	return c.now().Sub(claims.IssuedAt()) > c.ttl
}

// IsValid reports whether the token carries the expected prefix, decodes,
// and has not expired.
func (c *Codec) IsValid(tok string) bool {
	if !strings.HasPrefix(tok, Prefix) {
		return false
	}
	return c.Decode(tok) != nil && !c.IsExpired(tok)
}
