package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validSignup = map[string]string{"name": "Alice", "email": "alice@x.com", "password": "Sup3rSecret"}

func TestRegister_Created(t *testing.T) {
	ss := &stubSessions{pair: &services.TokenPair{AccessToken: "a1", RefreshToken: "r1"}}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/users", "", validSignup)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	got := decode[map[string]string](t, rec)
	assert.Equal(t, map[string]string{"jwt": "a1", "refresh_token": "r1"}, got)
}

func TestRegister_ValidationErrors(t *testing.T) {
	h := newTestServer(&stubSessions{}, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/users", "", map[string]string{"email": "nope", "password": "weak"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got := decode[map[string]map[string][]string](t, rec)
	errs := got["errors"]
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestRegister_InvalidJSON(t *testing.T) {
	h := newTestServer(&stubSessions{}, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/users", "", "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[map[string]map[string][]string](t, rec)
	assert.Equal(t, []string{"Invalid JSON."}, got["errors"]["body"])
}

func TestRegister_Conflict_HidesEmail(t *testing.T) {
	ss := &stubSessions{err: fmt.Errorf("error creating user: %w", fmt.Errorf("%w: alice@x.com", common.ErrConflict))}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/users", "", validSignup)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, map[string]string{"error": "user already exists"}, decode[map[string]string](t, rec))
}

func TestLogin_Statuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body any
		want int
	}{
		{"ok", nil, map[string]string{"email": "alice@x.com", "password": "Sup3rSecret"}, http.StatusCreated},
		{"bad credentials", common.ErrAuthenticationFailed, map[string]string{"email": "alice@x.com", "password": "x"}, http.StatusUnauthorized},
		{"missing fields", nil, map[string]string{}, http.StatusBadRequest},
		{"malformed email", common.ErrAuthenticationFailed, map[string]string{"email": "not-an-email", "password": "Sup3rSecret"}, http.StatusBadRequest},
		{"store down", errors.New("redis error: dial tcp"), map[string]string{"email": "alice@x.com", "password": "x"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ss := &stubSessions{pair: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, err: tc.err}
			h := newTestServer(ss, &stubIdeas{}).Router()
			rec := do(t, h, http.MethodPost, "/access-tokens", "", tc.body)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestLogin_MalformedEmailIsValidationError(t *testing.T) {
	ss := &stubSessions{err: common.ErrAuthenticationFailed}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/access-tokens", "", map[string]string{"email": "not-an-email", "password": "Sup3rSecret"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[map[string]map[string][]string](t, rec)
	assert.Equal(t, []string{"Enter a valid email address."}, got["errors"]["email"])
}

func TestRefresh_TrailingDataRejected(t *testing.T) {
	ss := &stubSessions{}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/access-tokens/refresh", "a1", `{"refresh_token":"r"} garbage`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[map[string]map[string][]string](t, rec)
	assert.Equal(t, []string{"Invalid JSON."}, got["errors"]["body"])
	assert.Empty(t, ss.gotRefresh, "service must not be called")
}

func TestInternalError_HidesDetails(t *testing.T) {
	ss := &stubSessions{err: errors.New("db error: connection refused")}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/access-tokens", "", map[string]string{"email": "a@x.com", "password": "p"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]string{"error": "internal error"}, decode[map[string]string](t, rec))
}

func TestLogout(t *testing.T) {
	ss := &stubSessions{}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodDelete, "/access-tokens", "a1", map[string]string{"refresh_token": "r1"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "a1", ss.gotAccess)
	assert.Equal(t, "r1", ss.gotRefresh)
}

func TestLogout_EmptyBodyReachesService(t *testing.T) {
	ss := &stubSessions{err: common.ErrForbidden}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodDelete, "/access-tokens", "a1", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "", ss.gotRefresh)
}

func TestLogout_UnparseableBody(t *testing.T) {
	ss := &stubSessions{}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodDelete, "/access-tokens", "a1", "[[[")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ss.gotAccess, "service must not be called")
}

func TestRefresh(t *testing.T) {
	ss := &stubSessions{token: "a2"}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodPost, "/access-tokens/refresh", "a1", map[string]string{"refresh_token": "r1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"jwt": "a2"}, decode[map[string]string](t, rec))
	assert.Equal(t, "a1", ss.gotAccess)
	assert.Equal(t, "r1", ss.gotRefresh)
}

func TestRefresh_Statuses(t *testing.T) {
	for err, want := range map[error]int{
		common.ErrUnauthenticated: http.StatusBadRequest,
		common.ErrUnauthorized:    http.StatusUnauthorized,
	} {
		h := newTestServer(&stubSessions{err: err}, &stubIdeas{}).Router()
		rec := do(t, h, http.MethodPost, "/access-tokens/refresh", "a1", map[string]string{"refresh_token": "r1"})
		assert.Equal(t, want, rec.Code, err.Error())
	}
}

func TestMe(t *testing.T) {
	ss := &stubSessions{profile: &models.Profile{Name: "Alice", Email: "alice@x.com", AvatarURL: "https://www.gravatar.com/avatar/abc"}}
	h := newTestServer(ss, &stubIdeas{}).Router()

	rec := do(t, h, http.MethodGet, "/me", "a1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{
		"name":       "Alice",
		"email":      "alice@x.com",
		"avatar_url": "https://www.gravatar.com/avatar/abc",
	}, decode[map[string]string](t, rec))
	assert.Equal(t, "a1", ss.gotAccess)
}

func TestMe_Statuses(t *testing.T) {
	for err, want := range map[error]int{
		common.ErrUnauthenticated: http.StatusBadRequest,
		common.ErrForbidden:       http.StatusForbidden,
		common.ErrUnauthorized:    http.StatusUnauthorized,
	} {
		h := newTestServer(&stubSessions{err: err}, &stubIdeas{}).Router()
		rec := do(t, h, http.MethodGet, "/me", "", nil)
		assert.Equal(t, want, rec.Code, err.Error())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ss := &stubSessions{err: common.ErrAuthenticationFailed}
	h := newTestServer(ss, &stubIdeas{}).Router()

	do(t, h, http.MethodPost, "/access-tokens", "", map[string]string{"email": "a@x.com", "password": "p"})

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ideapool_session_events_total{op="login",outcome="rejected"} 1`)
	assert.Contains(t, rec.Body.String(), `ideapool_http_requests_total`)
}

func TestMetricsEndpoint_UnmatchedPathsShareOneSeries(t *testing.T) {
	h := newTestServer(&stubSessions{}, &stubIdeas{}).Router()

	do(t, h, http.MethodGet, "/nope/0", "", nil)
	do(t, h, http.MethodGet, "/nope/1", "", nil)

	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ideapool_http_requests_total{method="GET",route="unmatched",status="404"} 2`)
	assert.NotContains(t, body, "/nope/")
}
