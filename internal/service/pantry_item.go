package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pantryapi/internal/model"
	"pantryapi/internal/repository"
)

const (
	// DefaultListLimit is used when the caller does not send a limit.
	DefaultListLimit = 10
	// MaxListLimit caps a single page; larger limits are clamped.
	MaxListLimit = 100
)

var (
	ErrInvalidID   = errors.New("id must be a positive integer")
	ErrInvalidPage = errors.New("skip and limit must be non-negative")
	ErrNotFound    = errors.New("item not found")
)

// ConstraintError reports a write rejected by a storage uniqueness constraint.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	return e.Field + " already exists"
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

var tracer = otel.Tracer("pantryapi/internal/service")

// PantryItemService defines the use cases for pantry items.
type PantryItemService interface {
	// List returns up to limit items in storage order after skipping the first skip.
	List(ctx context.Context, skip, limit int) ([]model.PantryItem, error)

	// Create validates in and stores a new item with a storage-assigned id.
	Create(ctx context.Context, in model.PantryItemInput) (*model.PantryItem, error)

	// Get returns a single item by its id.
	Get(ctx context.Context, id int64) (*model.PantryItem, error)

	// Update replaces every field of an existing item with the values in in.
	Update(ctx context.Context, id int64, in model.PantryItemInput) (*model.PantryItem, error)

	// Delete removes an item by id.
	Delete(ctx context.Context, id int64) error
}

type pantryItemService struct {
	repo repository.PantryItemRepository
}

// NewPantryItemService constructs a new PantryItemService.
func NewPantryItemService(repo repository.PantryItemRepository) PantryItemService {
	return &pantryItemService{repo: repo}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *pantryItemService) List(ctx context.Context, skip, limit int) (items []model.PantryItem, err error) {
	ctx, span := startSpan(ctx, "PantryItemService.List", attribute.Int("skip", skip), attribute.Int("limit", limit))
	defer func() { endSpan(span, err) }()

	if skip < 0 || limit < 0 {
		return nil, ErrInvalidPage
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if limit == 0 {
		return []model.PantryItem{}, nil
	}
	return s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: skip})
}

func (s *pantryItemService) Create(ctx context.Context, in model.PantryItemInput) (out *model.PantryItem, err error) {
	ctx, span := startSpan(ctx, "PantryItemService.Create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	item, err := in.ToEntity()
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Create(ctx, &item)
	if err != nil {
		return nil, translateStorageError(err, "create")
	}
	span.SetAttributes(attribute.Int64("pantry_item.id", stored.ID))
	return stored, nil
}

func (s *pantryItemService) Get(ctx context.Context, id int64) (item *model.PantryItem, err error) {
	ctx, span := startSpan(ctx, "PantryItemService.Get", attribute.Int64("pantry_item.id", id))
	defer func() { endSpan(span, err) }()

	if id <= 0 {
		return nil, ErrInvalidID
	}
	item, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateStorageError(err, "find")
	}
	return item, nil
}

func (s *pantryItemService) Update(ctx context.Context, id int64, in model.PantryItemInput) (out *model.PantryItem, err error) {
	ctx, span := startSpan(ctx, "PantryItemService.Update", attribute.Int64("pantry_item.id", id))
	defer func() { endSpan(span, err) }()

	if id <= 0 {
		return nil, ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateStorageError(err, "find")
	}
	if err := in.ApplyTo(current); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, translateStorageError(err, "update")
	}
	return updated, nil
}

func (s *pantryItemService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "PantryItemService.Delete", attribute.Int64("pantry_item.id", id))
	defer func() { endSpan(span, err) }()

	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateStorageError(err, "delete")
	}
	return nil
}

func translateStorageError(err error, op string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateBarcode):
		return &ConstraintError{Field: "barcode", Err: err}
	}
	return fmt.Errorf("%s pantry item: %w", op, err)
}
