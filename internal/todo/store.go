package todo

import "context"

// Repository defines the data access contract for to-do events.
//
// Reads are joined with the owning user's categories so list and detail
// responses can render category names without a second round trip. Like
// categories, every operation is owner-scoped: foreign rows are not found.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Event, error)
	FindByID(ctx context.Context, id, userID string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id, userID string) error
}
