package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pantryapi/internal/model"
	"pantryapi/internal/repository"
)

type MockPantryItemRepository struct {
	mock.Mock
}

func (m *MockPantryItemRepository) Create(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemRepository) FindByID(ctx context.Context, id int64) (*model.PantryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemRepository) List(ctx context.Context, pq repository.PageQuery) ([]model.PantryItem, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PantryItem), args.Error(1)
}

func (m *MockPantryItemRepository) Update(ctx context.Context, item *model.PantryItem) (*model.PantryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
