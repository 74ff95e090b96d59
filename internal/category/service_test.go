package category_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcarvalho/tasko/internal/category"
	"github.com/rmcarvalho/tasko/internal/platform/apperr"
)

// memoryRepository implements [category.Repository] with owner scoping.
type memoryRepository struct {
	items map[string]*category.Category
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: map[string]*category.Category{}}
}

func (repo *memoryRepository) ListByUser(ctx context.Context, userID string) ([]*category.Category, error) {
	result := []*category.Category{}
	for _, item := range repo.items {
		if item.UserID == userID {
			copied := *item
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (repo *memoryRepository) FindByID(ctx context.Context, id, userID string) (*category.Category, error) {
	if item, ok := repo.items[id]; ok && item.UserID == userID {
		copied := *item
		return &copied, nil
	}
	return nil, apperr.NotFound("Category")
}

func (repo *memoryRepository) Create(ctx context.Context, item *category.Category) error {
	copied := *item
	repo.items[item.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(ctx context.Context, item *category.Category) error {
	if existing, ok := repo.items[item.ID]; ok && existing.UserID == item.UserID {
		copied := *item
		repo.items[item.ID] = &copied
		return nil
	}
	return apperr.NotFound("Category")
}

func (repo *memoryRepository) Delete(ctx context.Context, id, userID string) error {
	if item, ok := repo.items[id]; ok && item.UserID == userID {
		delete(repo.items, id)
		return nil
	}
	return apperr.NotFound("Category")
}

func color(value string) *string { return &value }

/*
TestService_CreateAndGet covers the create path, including generated IDs and
owner binding.
*/
func TestService_CreateAndGet(t *testing.T) {
	service := category.NewService(newMemoryRepository())

	created, err := service.Create(context.Background(), "owner-1", category.CreateInput{
		Name:  "Work",
		Color: color("#336699"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.UserID)

	found, err := service.Get(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Name)
}

/*
TestService_Validation rejects empty names and malformed colors.
*/
func TestService_Validation(t *testing.T) {
	service := category.NewService(newMemoryRepository())

	tests := []struct {
		name  string
		input category.CreateInput
	}{
		{"empty_name", category.CreateInput{Name: ""}},
		{"bad_color", category.CreateInput{Name: "Work", Color: color("blue")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), "owner-1", tt.input)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, 400, appError.HTTPStatus)
		})
	}
}

/*
TestService_ForeignRowsNotFound verifies that another user's category is
indistinguishable from an absent one.
*/
func TestService_ForeignRowsNotFound(t *testing.T) {
	repo := newMemoryRepository()
	service := category.NewService(repo)

	created, err := service.Create(context.Background(), "owner-1", category.CreateInput{Name: "Work"})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), created.ID, "intruder")
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	_, err = service.Update(context.Background(), created.ID, "intruder", category.CreateInput{Name: "Stolen"})
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	err = service.Delete(context.Background(), created.ID, "intruder")
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	// The owner still sees the untouched row.
	found, err := service.Get(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Name)
}
