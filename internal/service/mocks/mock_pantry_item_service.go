package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pantryapi/internal/model"
	"pantryapi/internal/service"
)

type MockPantryItemService struct {
	mock.Mock
}

var _ service.PantryItemService = (*MockPantryItemService)(nil)

func (m *MockPantryItemService) List(ctx context.Context, skip, limit int) ([]model.PantryItem, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PantryItem), args.Error(1)
}

func (m *MockPantryItemService) Create(ctx context.Context, in model.PantryItemInput) (*model.PantryItem, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemService) Get(ctx context.Context, id int64) (*model.PantryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemService) Update(ctx context.Context, id int64, in model.PantryItemInput) (*model.PantryItem, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryItemService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExportService struct {
	mock.Mock
}

var _ service.ExportService = (*MockExportService)(nil)

func (m *MockExportService) Export(ctx context.Context) (*service.ExportResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
