package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ideapool/internal/dbx"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// IdeaInput carries the user-editable fields of an idea.
type IdeaInput struct {
	Content    string
	Impact     int
	Ease       int
	Confidence int
}

// IdeaService manages scored ideas.
type IdeaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewIdeaService(db *sql.DB, m repomanager.RepositoryManager) *IdeaService {
	return &IdeaService{db: db, repomanager: m, now: time.Now, newID: uuid.NewString}
}

// Create stores a new idea and returns it as persisted.
func (s *IdeaService) Create(ctx context.Context, in IdeaInput) (*models.Idea, error) {
	idea := &models.Idea{
		ID:         s.newID(),
		Content:    in.Content,
		Impact:     in.Impact,
		Ease:       in.Ease,
		Confidence: in.Confidence,
	}

	var out *models.Idea
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Ideas(tx)
		if err := repo.Create(ctx, idea); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, idea.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating idea: %w", err)
	}
	return out, nil
}

// Update overwrites the fields of idea id. Unknown ids yield common.ErrNotFound.
func (s *IdeaService) Update(ctx context.Context, id string, in IdeaInput) (*models.Idea, error) {
	modified := s.now().UTC()
	idea := &models.Idea{
		ID:         id,
		Content:    in.Content,
		Impact:     in.Impact,
		Ease:       in.Ease,
		Confidence: in.Confidence,
		ModifiedAt: &modified,
	}

	var out *models.Idea
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Ideas(tx)
		if err := repo.Update(ctx, idea); err != nil {
			return err
		}
		var err error
		out, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating idea: %w", err)
	}
	return out, nil
}

// Delete removes idea id if it exists.
func (s *IdeaService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Ideas(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting idea: %w", err)
	}
	return nil
}

// List returns the given 1-based page of ideas, best average score first.
// Pages below 1 are empty.
func (s *IdeaService) List(ctx context.Context, page int) ([]*models.Idea, error) {
	if page < 1 {
		return []*models.Idea{}, nil
	}
	list, err := s.repomanager.Ideas(s.db).ListPage(ctx, models.IdeasPageSize, models.IdeasPageSize*(page-1))
	if err != nil {
		return nil, fmt.Errorf("error listing ideas: %w", err)
	}
	if list == nil {
		list = []*models.Idea{}
	}
	return list, nil
}
