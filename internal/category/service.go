package category

import (
	"context"

	"github.com/rmcarvalho/tasko/internal/platform/validate"
	"github.com/rmcarvalho/tasko/pkg/uuidv7"
)

// Service implements category use cases, all scoped to the calling account.
type Service struct {
	repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput holds the user-provided fields for a new category.
type CreateInput struct {
	Name  string
	Color *string
}

func (service *Service) List(ctx context.Context, userID string) ([]*Category, error) {
	return service.repository.ListByUser(ctx, userID)
}

func (service *Service) Get(ctx context.Context, id, userID string) (*Category, error) {
	return service.repository.FindByID(ctx, id, userID)
}

func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item := &Category{
		ID:     uuidv7.New(),
		UserID: userID,
		Name:   input.Name,
		Color:  input.Color,
	}

	if err := service.repository.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Update overwrites the mutable fields of an owned category. Targets that are
// absent or owned by another account surface as not-found.
func (service *Service) Update(ctx context.Context, id, userID string, input CreateInput) (*Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	item := &Category{
		ID:     id,
		UserID: userID,
		Name:   input.Name,
		Color:  input.Color,
	}

	if err := service.repository.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (service *Service) Delete(ctx context.Context, id, userID string) error {
	return service.repository.Delete(ctx, id, userID)
}

func validateInput(input CreateInput) error {
	v := &validate.Validator{}
	v.Required("name", input.Name).MaxLen("name", input.Name, 100)
	if input.Color != nil {
		v.HexColor("color", *input.Color)
	}
	return v.Err()
}
