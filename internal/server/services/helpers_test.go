package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/dbx"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	ideasrepo "github.com/dmitrijs2005/ideapool/internal/server/repositories/ideas"
	usersrepo "github.com/dmitrijs2005/ideapool/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	mu     sync.Mutex
	byMail map[string]*models.User
	nextID int64

	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, fmt.Errorf("%w: %s", common.ErrConflict, u.Email)
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byMail[u.Email] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) ExistsActive(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byMail[email]
	return ok, nil
}

func (f *fakeUsersRepo) remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byMail, email)
}

type fakeIdeasRepo struct {
	mu    sync.Mutex
	items map[string]*models.Idea

	createErr error
	listErr   error

	lastLimit, lastOffset int
}

func newFakeIdeasRepo() *fakeIdeasRepo {
	return &fakeIdeasRepo{items: map[string]*models.Idea{}}
}

func (f *fakeIdeasRepo) Create(ctx context.Context, idea *models.Idea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *idea
	cp.CreatedAt = time.Unix(1700000000, 0).UTC()
	f.items[idea.ID] = &cp
	return nil
}

func (f *fakeIdeasRepo) Update(ctx context.Context, idea *models.Idea) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[idea.ID]
	if !ok {
		return common.ErrNotFound
	}
	cp := *idea
	cp.CreatedAt = cur.CreatedAt
	f.items[idea.ID] = &cp
	return nil
}

func (f *fakeIdeasRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeIdeasRepo) GetByID(ctx context.Context, id string) (*models.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeIdeasRepo) ListPage(ctx context.Context, limit, offset int) ([]*models.Idea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit, f.lastOffset = limit, offset
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := make([]*models.Idea, 0, len(f.items))
	for _, it := range f.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Impact+all[i].Ease+all[i].Confidence > all[j].Impact+all[j].Ease+all[j].Confidence
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	i *fakeIdeasRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Ideas(db dbx.DBTX) ideasrepo.Repository       { return m.i }
