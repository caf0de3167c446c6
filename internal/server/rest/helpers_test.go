package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/logging"
	"github.com/dmitrijs2005/ideapool/internal/server/metrics"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/services"
)

type stubSessions struct {
	pair    *services.TokenPair
	token   string
	profile *models.Profile
	user    *models.User
	err     error

	gotAccess, gotRefresh string
}

func (s *stubSessions) Register(ctx context.Context, name, email, password string) (*services.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubSessions) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubSessions) Refresh(ctx context.Context, access, refresh string) (string, error) {
	s.gotAccess, s.gotRefresh = access, refresh
	return s.token, s.err
}

func (s *stubSessions) Logout(ctx context.Context, access, refresh string) error {
	s.gotAccess, s.gotRefresh = access, refresh
	return s.err
}

func (s *stubSessions) WhoAmI(ctx context.Context, access string) (*models.Profile, error) {
	s.gotAccess = access
	return s.profile, s.err
}

func (s *stubSessions) Authenticate(ctx context.Context, access string) (*models.User, error) {
	s.gotAccess = access
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubIdeas struct {
	idea *models.Idea
	list []*models.Idea
	err  error

	gotID   string
	gotPage int
	gotIn   services.IdeaInput
}

func (s *stubIdeas) Create(ctx context.Context, in services.IdeaInput) (*models.Idea, error) {
	s.gotIn = in
	return s.idea, s.err
}

func (s *stubIdeas) Update(ctx context.Context, id string, in services.IdeaInput) (*models.Idea, error) {
	s.gotID, s.gotIn = id, in
	return s.idea, s.err
}

func (s *stubIdeas) Delete(ctx context.Context, id string) error {
	s.gotID = id
	return s.err
}

func (s *stubIdeas) List(ctx context.Context, page int) ([]*models.Idea, error) {
	s.gotPage = page
	return s.list, s.err
}

func newTestServer(ss SessionManager, is IdeaManager) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", logging.Nop{}, ss, is, metrics.New(), time.Second)
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AccessTokenHeaderName, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}
