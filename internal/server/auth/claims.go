package auth

import (
	"time"

	"github.com/dmitrijs2005/ideapool/internal/server/models"
)

// Claim describes a value computed from the user at issue time and checked
// again on every decode.
type Claim struct {
	Key     string
	Compute func(*models.User) any
	Verify  func(any) bool
}

// NameClaim carries the user's display name.
var NameClaim = Claim{
	Key:     "name",
	Compute: func(u *models.User) any { return u.Name },
	Verify:  func(v any) bool { return v != nil },
}

// DefaultClaims is the set of claims embedded in every access token.
var DefaultClaims = []Claim{NameClaim}

// Claims is the decoded content of an access token.
type Claims struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Custom    map[string]any
}

// Name returns the name claim, or "" if it is absent or not a string.
func (c *Claims) Name() string {
	s, _ := c.Custom[NameClaim.Key].(string)
	return s
}
