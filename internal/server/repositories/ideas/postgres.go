package ideas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ideapool/internal/common"
	"github.com/dmitrijs2005/ideapool/internal/dbx"
	"github.com/dmitrijs2005/ideapool/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, idea *models.Idea) error {
	query := `
		INSERT INTO ideas (id, content, impact, ease, confidence)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		idea.ID, idea.Content, idea.Impact, idea.Ease, idea.Confidence).Scan(&idea.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, idea *models.Idea) error {
	query := `
		UPDATE ideas
		SET content = $2, impact = $3, ease = $4, confidence = $5, modified_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		idea.ID, idea.Content, idea.Impact, idea.Ease, idea.Confidence, idea.ModifiedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM ideas
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Idea, error) {
	query := `
		SELECT id, content, impact, ease, confidence, created_at, modified_at
		FROM ideas
		WHERE id = $1
	`
	idea, err := scanIdea(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return idea, nil
}

func (r *PostgresRepository) ListPage(ctx context.Context, limit, offset int) ([]*models.Idea, error) {
	query := `
		SELECT id, content, impact, ease, confidence, created_at, modified_at
		FROM ideas
		ORDER BY (impact + ease + confidence) / 3.0 DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select ideas: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Idea, 0, limit)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIdea(s scanner) (*models.Idea, error) {
	var (
		idea     models.Idea
		modified sql.NullTime
	)
	if err := s.Scan(&idea.ID, &idea.Content, &idea.Impact, &idea.Ease, &idea.Confidence, &idea.CreatedAt, &modified); err != nil {
		return nil, err
	}
	if modified.Valid {
		idea.ModifiedAt = &modified.Time
	}
	return &idea, nil
}
