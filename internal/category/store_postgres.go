package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmcarvalho/tasko/internal/platform/apperr"
	"github.com/rmcarvalho/tasko/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Category, error) {
	const query = `
		SELECT id, user_id, name, color
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		item := &Category{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Color); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, item)
	}

	return categories, rows.Err()
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id, userID string) (*Category, error) {
	const query = `
		SELECT id, user_id, name, color
		FROM categories
		WHERE id = $1 AND user_id = $2`

	item := &Category{}
	err := repository.pool.QueryRow(ctx, query, id, userID).Scan(
		&item.ID, &item.UserID, &item.Name, &item.Color,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("postgres_category_repo_find_failed: %w", err)
	}

	return item, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, category *Category) error {
	const query = `
		INSERT INTO categories (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(ctx, query,
		category.ID, category.UserID, category.Name, category.Color,
	)
	if err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, category *Category) error {
	const query = `
		UPDATE categories
		SET name = $3, color = $4
		WHERE id = $1 AND user_id = $2`

	tag, err := repository.pool.Exec(ctx, query,
		category.ID, category.UserID, category.Name, category.Color,
	)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	tag, err := repository.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}

	return nil
}
