package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// ErrNotLoggedIn is returned by calls that need a session when there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+": "+strings.Join(e.Fields[n], " "))
	}
	return fmt.Sprintf("%d: %s", e.Status, strings.Join(parts, "; "))
}

type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type Idea struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Impact       int     `json:"impact"`
	Ease         int     `json:"ease"`
	Confidence   int     `json:"confidence"`
	AverageScore float64 `json:"average_score"`
	CreatedAt    int64   `json:"created_at"`
	ModifiedAt   *int64  `json:"modified_at"`
}

type IdeaInput struct {
	Content    string `json:"content"`
	Impact     int    `json:"impact"`
	Ease       int    `json:"ease"`
	Confidence int    `json:"confidence"`
}

type tokenPair struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refresh_token"`
}

type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}
