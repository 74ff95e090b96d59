package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmcarvalho/tasko/internal/category"
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

// selectEvent joins the optional category so one query serves the list and
// detail endpoints. Category columns come back NULL when no link exists.
const selectEvent = `
	SELECT
		t.id, t.user_id, t.title, t.description, t.is_done, t.created_at,
		t.deadline, t.category_id,
		c.id, c.user_id, c.name, c.color
	FROM todo_events t
	LEFT JOIN categories c ON c.id = t.category_id`

func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Event, error) {
	const query = selectEvent + `
	WHERE t.user_id = $1
	ORDER BY t.created_at DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_todo_events")
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_todo_event")
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id, userID string) (*Event, error) {
	const query = selectEvent + `
	WHERE t.id = $1 AND t.user_id = $2`

	event, err := scanEvent(repository.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Todo event")
		}
		return nil, fmt.Errorf("postgres_todo_repo_find_failed: %w", err)
	}

	return event, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, event *Event) error {
	const query = `
		INSERT INTO todo_events (id, user_id, title, description, is_done, created_at, deadline, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.pool.Exec(ctx, query,
		event.ID, event.UserID, event.Title, event.Description,
		event.IsDone, event.CreatedAt, event.Deadline, event.CategoryID,
	)
	if err != nil {
		return dberr.Wrap(err, "create_todo_event")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, event *Event) error {
	const query = `
		UPDATE todo_events
		SET title = $3, description = $4, is_done = $5, deadline = $6, category_id = $7
		WHERE id = $1 AND user_id = $2`

	tag, err := repository.pool.Exec(ctx, query,
		event.ID, event.UserID, event.Title, event.Description,
		event.IsDone, event.Deadline, event.CategoryID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_todo_event")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Todo event")
	}

	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM todo_events WHERE id = $1 AND user_id = $2`

	tag, err := repository.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_todo_event")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Todo event")
	}

	return nil
}

// scanEvent maps one joined row into an [Event], attaching the category when
// the left join produced one.
func scanEvent(row pgx.Row) (*Event, error) {
	event := &Event{}

	var categoryID, categoryUserID, categoryName *string
	var categoryColor *string

	err := row.Scan(
		&event.ID, &event.UserID, &event.Title, &event.Description,
		&event.IsDone, &event.CreatedAt, &event.Deadline, &event.CategoryID,
		&categoryID, &categoryUserID, &categoryName, &categoryColor,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		event.Category = &category.Category{
			ID:     *categoryID,
			UserID: *categoryUserID,
			Name:   *categoryName,
			Color:  categoryColor,
		}
	}

	return event, nil
}
