// Package ideas declares persistence for scored ideas.
package ideas

import (
	"context"

	"github.com/dmitrijs2005/ideapool/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, idea *models.Idea) error
	// Update overwrites the scored fields; common.ErrNotFound when id is unknown.
	Update(ctx context.Context, idea *models.Idea) error
	// Delete removes the idea; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Idea, error)
	// ListPage returns up to limit ideas ordered by average score, best first.
	ListPage(ctx context.Context, limit, offset int) ([]*models.Idea, error)
}
