// Package services contains server-side business logic. This file implements
// SessionService, which handles registration, login, logout and refreshing
// access tokens against the single refresh-token slot each user owns.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/dbx"
	"github.com/dmitrijs2005/ideapool/internal/server/auth"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and the user's refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService provides authentication-related operations:
//   - Register: create a user and log them in
//   - Login: verify credentials and mint a token pair
//   - Refresh: mint a new access token for a matching refresh token
//   - Logout: revoke the refresh token
//   - WhoAmI / Authenticate: resolve the user behind an access token
type SessionService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	registry     refreshtokens.Registry
	issuer       *auth.Issuer
	hasher       *auth.BcryptHasher
	allowExpired bool
}

// NewSessionService constructs a SessionService. allowExpired controls whether
// Refresh accepts an access token past its expiry.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, reg refreshtokens.Registry,
	issuer *auth.Issuer, hasher *auth.BcryptHasher, allowExpired bool) *SessionService {
	return &SessionService{
		db:           db,
		repomanager:  m,
		registry:     reg,
		issuer:       issuer,
		hasher:       hasher,
		allowExpired: allowExpired,
	}
}

// Register creates a user and returns a fresh TokenPair for it. An existing
// active user with the same email yields common.ErrConflict.
func (s *SessionService) Register(ctx context.Context, name, email, password string) (*TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.ExistsActive(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", common.ErrConflict, email)
		}

		user, err = repo.Create(ctx, &models.User{Name: name, Email: email, HashedPassword: hash})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issuePair(ctx, user)
}

// Login verifies credentials and returns a new TokenPair, replacing any
// refresh token the user held before.
func (s *SessionService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !s.hasher.Matches(password, user.HashedPassword) {
		return nil, common.ErrAuthenticationFailed
	}
	return s.issuePair(ctx, user)
}

// Refresh returns a new access token when refreshToken matches the one stored
// for the identity in accessToken. The refresh token is not rotated.
func (s *SessionService) Refresh(ctx context.Context, accessToken, refreshToken string) (string, error) {
	if accessToken == "" || refreshToken == "" {
		return "", common.ErrUnauthenticated
	}

	decode := s.issuer.Decode
	if s.allowExpired {
		decode = s.issuer.DecodeExpired
	}
	claims, err := decode(accessToken)
	if err != nil {
		return "", common.ErrUnauthorized
	}

	stored, err := s.registry.Retrieve(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("error retrieving refresh token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", common.ErrUnauthorized
	}

	token, _, err := s.issuer.Reissue(claims)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes refreshToken for the user behind accessToken. Revoking a
// token that is no longer stored still succeeds.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return common.ErrForbidden
	}
	claims, err := s.issuer.Decode(accessToken)
	if err != nil {
		return common.ErrForbidden
	}
	user, err := s.lookup(ctx, claims.Email)
	if err != nil {
		return err
	}
	if refreshToken == "" {
		return common.ErrForbidden
	}

	if _, err := s.registry.Revoke(ctx, user.Email, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves the active user behind accessToken.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, common.ErrUnauthenticated
	}
	claims, err := s.issuer.Decode(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrForbidden
	}
	return s.lookup(ctx, claims.Email)
}

// WhoAmI returns the public profile of the user behind accessToken.
func (s *SessionService) WhoAmI(ctx context.Context, accessToken string) (*models.Profile, error) {
	user, err := s.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

// --- helpers below ---

func (s *SessionService) lookup(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrForbidden
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *SessionService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(common.RefreshTokenSize)
}

func (s *SessionService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, _, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.registry.Store(ctx, user.Email, refresh); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
