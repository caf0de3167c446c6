// Package refreshtokens implements the refresh-token registry: one slot per
// user holding the currently valid refresh token.
package refreshtokens

import "context"

// Registry stores at most one refresh token per user. Writes are
// last-write-wins; there is no expiry.
type Registry interface {
	// Store overwrites the slot for userID. Any earlier token for that user
	// stops being recognized.
	Store(ctx context.Context, userID string, token string) error

	// Retrieve returns the current token for userID, or common.ErrNotFound.
	Retrieve(ctx context.Context, userID string) (string, error)

	// Revoke clears the slot only if it still holds token, and reports
	// whether anything was deleted.
	Revoke(ctx context.Context, userID string, token string) (bool, error)
}
