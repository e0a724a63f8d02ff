package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pantryapi/internal/model"
	"pantryapi/internal/repository"
	repoMocks "pantryapi/internal/repository/mocks"
)

func strPtr(s string) *string { return &s }

func int32Ptr(i int32) *int32 { return &i }

func milkInput() model.PantryItemInput {
	return model.PantryItemInput{
		Name:      "Milk",
		Quantity:  int32Ptr(2),
		Unit:      strPtr("gallons"),
		AddedDate: "2024-01-15T10:30:00",
		Barcode:   strPtr("123456789"),
	}
}

func TestPantryItemService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		skip      int
		limit     int
		setup     func(m *repoMocks.MockPantryItemRepository)
		wantLen   int
		wantErrIs error
	}{
		{
			name:  "passes skip and limit through",
			skip:  2,
			limit: 2,
			setup: func(m *repoMocks.MockPantryItemRepository) {
				m.On("List", mock.Anything, repository.PageQuery{Limit: 2, Offset: 2}).
					Return([]model.PantryItem{{ID: 3, Name: "Eggs"}, {ID: 4, Name: "Chicken Breast"}}, nil)
			},
			wantLen: 2,
		},
		{
			name:  "clamps large limit",
			limit: 5000,
			setup: func(m *repoMocks.MockPantryItemRepository) {
				m.On("List", mock.Anything, repository.PageQuery{Limit: MaxListLimit, Offset: 0}).
					Return([]model.PantryItem{}, nil)
			},
		},
		{
			name:  "zero limit short-circuits",
			limit: 0,
			setup: func(m *repoMocks.MockPantryItemRepository) {},
		},
		{
			name:      "negative skip",
			skip:      -1,
			limit:     10,
			setup:     func(m *repoMocks.MockPantryItemRepository) {},
			wantErrIs: ErrInvalidPage,
		},
		{
			name:      "negative limit",
			limit:     -5,
			setup:     func(m *repoMocks.MockPantryItemRepository) {},
			wantErrIs: ErrInvalidPage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockPantryItemRepository)
			tt.setup(repo)
			svc := NewPantryItemService(repo)

			items, err := svc.List(ctx, tt.skip, tt.limit)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.wantLen)
			repo.AssertExpectations(t)
		})
	}
}

func TestPantryItemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("maps input and returns stored item", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(item *model.PantryItem) bool {
			return item.ID == 0 &&
				item.Name == "Milk" &&
				item.Quantity == 2 &&
				item.Unit == "gallons" &&
				item.AddedDate.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) &&
				item.Barcode != nil && *item.Barcode == "123456789"
		})).Return(&model.PantryItem{ID: 1, Name: "Milk"}, nil).Once()

		got, err := svc.Create(ctx, milkInput())

		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("applies defaults", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(item *model.PantryItem) bool {
			return item.Quantity == model.DefaultQuantity && item.Unit == model.DefaultUnit && item.Barcode == nil
		})).Return(&model.PantryItem{ID: 2}, nil).Once()

		_, err := svc.Create(ctx, model.PantryItemInput{Name: "Salt", AddedDate: "2024-01-15"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("validation error never reaches storage", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		_, err := svc.Create(ctx, model.PantryItemInput{Quantity: int32Ptr(1)})

		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "name")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate barcode", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		repo.On("Create", mock.Anything, mock.Anything).
			Return(nil, repository.ErrDuplicateBarcode).Once()

		_, err := svc.Create(ctx, milkInput())

		var cErr *ConstraintError
		require.ErrorAs(t, err, &cErr)
		assert.Equal(t, "barcode", cErr.Field)
		assert.ErrorIs(t, err, repository.ErrDuplicateBarcode)
	})

	t.Run("storage error", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

		_, err := svc.Create(ctx, milkInput())

		assert.EqualError(t, err, "create pantry item: db down")
	})
}

func TestPantryItemService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		repo.On("FindByID", mock.Anything, int64(1)).Return(&model.PantryItem{ID: 1, Name: "Milk"}, nil).Once()

		got, err := NewPantryItemService(repo).Get(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Milk", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		repo.On("FindByID", mock.Anything, int64(999)).Return(nil, sql.ErrNoRows).Once()

		_, err := NewPantryItemService(repo).Get(ctx, 999)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)

		_, err := NewPantryItemService(repo).Get(ctx, 0)

		assert.ErrorIs(t, err, ErrInvalidID)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestPantryItemService_Update(t *testing.T) {
	ctx := context.Background()
	oldAdded := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("replaces every field", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		svc := NewPantryItemService(repo)

		repo.On("FindByID", mock.Anything, int64(1)).Return(&model.PantryItem{
			ID: 1, Name: "Milk", Quantity: 2, Unit: "gallons", AddedDate: oldAdded, Barcode: strPtr("123456789"),
		}, nil).Once()
		repo.On("Update", mock.Anything, mock.MatchedBy(func(item *model.PantryItem) bool {
			return item.ID == 1 &&
				item.Name == "Almond Milk" &&
				item.Quantity == 1 &&
				item.Unit == "carton" &&
				item.AddedDate.Equal(time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)) &&
				item.Barcode == nil
		})).Return(&model.PantryItem{ID: 1, Name: "Almond Milk", Quantity: 1, Unit: "carton"}, nil).Once()

		in := model.PantryItemInput{Name: "Almond Milk", Quantity: int32Ptr(1), Unit: strPtr("carton"), AddedDate: "2024-01-15T11:00:00"}
		got, err := svc.Update(ctx, 1, in)

		require.NoError(t, err)
		assert.Equal(t, "Almond Milk", got.Name)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		repo.On("FindByID", mock.Anything, int64(42)).Return(nil, sql.ErrNoRows).Once()

		_, err := NewPantryItemService(repo).Update(ctx, 42, milkInput())

		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("row deleted between lookup and write", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		repo.On("FindByID", mock.Anything, int64(1)).Return(&model.PantryItem{ID: 1}, nil).Once()
		repo.On("Update", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows).Once()

		_, err := NewPantryItemService(repo).Update(ctx, 1, milkInput())

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation error", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)

		_, err := NewPantryItemService(repo).Update(ctx, 1, model.PantryItemInput{Name: "x"})

		var vErr *model.ValidationError
		assert.ErrorAs(t, err, &vErr)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("duplicate barcode", func(t *testing.T) {
		repo := new(repoMocks.MockPantryItemRepository)
		repo.On("FindByID", mock.Anything, int64(1)).Return(&model.PantryItem{ID: 1}, nil).Once()
		repo.On("Update", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateBarcode).Once()

		_, err := NewPantryItemService(repo).Update(ctx, 1, milkInput())

		var cErr *ConstraintError
		assert.ErrorAs(t, err, &cErr)
	})
}

func TestPantryItemService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int64
		repoErr   error
		callRepo  bool
		wantErrIs error
		wantErr   string
	}{
		{name: "deleted", id: 1, callRepo: true},
		{name: "not found", id: 2, repoErr: sql.ErrNoRows, callRepo: true, wantErrIs: ErrNotFound},
		{name: "storage error", id: 3, repoErr: errors.New("boom"), callRepo: true, wantErr: "delete pantry item: boom"},
		{name: "invalid id", id: -1, wantErrIs: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockPantryItemRepository)
			if tt.callRepo {
				repo.On("Delete", mock.Anything, tt.id).Return(tt.repoErr).Once()
			}

			err := NewPantryItemService(repo).Delete(ctx, tt.id)

			switch {
			case tt.wantErrIs != nil:
				assert.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantErr != "":
				assert.EqualError(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
