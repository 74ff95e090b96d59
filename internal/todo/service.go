package todo

import (
	"context"
	"time"

	"github.com/rmcarvalho/tasko/internal/platform/validate"
	"github.com/rmcarvalho/tasko/pkg/uuidv7"
)

// Service implements to-do event use cases, all scoped to the calling account.
type Service struct {
	repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Input holds the user-provided fields for a new or updated event.
type Input struct {
	Title       string
	Description *string
	IsDone      bool
	Deadline    *time.Time
	CategoryID  *string
}

func (service *Service) List(ctx context.Context, userID string) ([]*Event, error) {
	return service.repository.ListByUser(ctx, userID)
}

func (service *Service) Get(ctx context.Context, id, userID string) (*Event, error) {
	return service.repository.FindByID(ctx, id, userID)
}

func (service *Service) Create(ctx context.Context, userID string, input Input) (*Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuidv7.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		IsDone:      input.IsDone,
		CreatedAt:   time.Now().UTC(),
		Deadline:    input.Deadline,
		CategoryID:  input.CategoryID,
	}

	if err := service.repository.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Update overwrites the mutable fields of an owned event. CreatedAt is never
// touched after creation.
func (service *Service) Update(ctx context.Context, id, userID string, input Input) (*Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	event := &Event{
		ID:          id,
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		IsDone:      input.IsDone,
		Deadline:    input.Deadline,
		CategoryID:  input.CategoryID,
	}

	if err := service.repository.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (service *Service) Delete(ctx context.Context, id, userID string) error {
	return service.repository.Delete(ctx, id, userID)
}

func validateInput(input Input) error {
	v := &validate.Validator{}
	v.Required("title", input.Title).MaxLen("title", input.Title, 200)
	if input.CategoryID != nil {
		v.UUID("categoryId", *input.CategoryID)
	}
	return v.Err()
}
