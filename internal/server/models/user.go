// Package models defines server-side data models persisted in the database.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// User is an account row. ExpireDate is the soft-delete marker: only rows
// with a nil ExpireDate take part in email uniqueness and lookups.
type User struct {
	ID             int64
	Name           string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	ExpireDate     *time.Time
}

// Profile is the public view of a user.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Profile returns the public view of u, including its Gravatar URL.
func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email, AvatarURL: AvatarURL(u.Email)}
}

// AvatarURL returns the Gravatar image URL for email.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBaseURL + hex.EncodeToString(sum[:])
}
