// Package auth issues and validates access tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

const emailKey = "email"

// Issuer signs HS256 access tokens with a process-wide secret.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
	claims   []Claim
}

// IssuerOption customizes an Issuer.
type IssuerOption func(*Issuer)

// WithClock replaces time.Now as the issuer's clock.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// WithClaims replaces DefaultClaims.
func WithClaims(claims ...Claim) IssuerOption {
	return func(i *Issuer) { i.claims = claims }
}

// NewIssuer returns an Issuer whose tokens are valid for validity.
func NewIssuer(secret []byte, validity time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		secret:   secret,
		validity: validity,
		now:      time.Now,
		claims:   DefaultClaims,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Issue returns a signed token for user together with its expiry.
func (i *Issuer) Issue(user *models.User) (string, time.Time, error) {
	custom := make(map[string]any, len(i.claims))
	for _, c := range i.claims {
		custom[c.Key] = c.Compute(user)
	}
	now := i.now()
	return i.sign(user.Email, custom, now, now.Add(i.validity))
}

// Reissue returns a new token for the identity in claims. The new expiry is
// always strictly later than claims.ExpiresAt.
func (i *Issuer) Reissue(claims *Claims) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.validity).Truncate(time.Second)
	if !exp.After(claims.ExpiresAt) {
		exp = claims.ExpiresAt.Truncate(time.Second).Add(time.Second)
	}
	return i.sign(claims.Email, claims.Custom, now, exp)
}

func (i *Issuer) sign(email string, custom map[string]any, iat, exp time.Time) (string, time.Time, error) {
	mc := jwt.MapClaims{}
	for k, v := range custom {
		mc[k] = v
	}
	mc[emailKey] = email
	mc["iat"] = iat.Unix()
	mc["exp"] = exp.Unix()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, time.Unix(exp.Unix(), 0), nil
}

// Decode verifies the signature and expiry of token.
func (i *Issuer) Decode(token string) (*Claims, error) {
	return i.parse(token, jwt.WithTimeFunc(i.now))
}

// DecodeExpired verifies the signature of token but accepts it past expiry.
func (i *Issuer) DecodeExpired(token string) (*Claims, error) {
	return i.parse(token, jwt.WithoutClaimsValidation())
}

func (i *Issuer) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	}

	return i.extract(mc)
}

func (i *Issuer) extract(mc jwt.MapClaims) (*Claims, error) {
	email, _ := mc[emailKey].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", common.ErrMalformedToken)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp", common.ErrMalformedToken)
	}

	c := &Claims{
		Email:     email,
		ExpiresAt: exp.Time,
		Custom:    make(map[string]any, len(i.claims)),
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}

	for _, cl := range i.claims {
		v, ok := mc[cl.Key]
		if !ok || !cl.Verify(v) {
			return nil, fmt.Errorf("%w: claim %q", common.ErrMalformedToken, cl.Key)
		}
		c.Custom[cl.Key] = v
	}

	return c, nil
}
