package category

import "context"

// Repository defines the data access contract for categories.
//
// Every read and write is scoped to an owner: a row that exists but belongs
// to someone else behaves exactly like a row that does not exist.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Category, error)
	FindByID(ctx context.Context, id, userID string) (*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id, userID string) error
}
