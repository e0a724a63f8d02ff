package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"pantryapi/internal/model"
	"pantryapi/internal/repository"
	"pantryapi/internal/storage"
)

const (
	exportPrefix    = "exports/pantry-items-"
	exportBatchSize = 500
	// ExportLinkTTL is how long a pre-signed export link stays valid.
	ExportLinkTTL = 15 * time.Minute
)

// ExportResult describes a snapshot written to object storage.
type ExportResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

// ExportService writes inventory snapshots to object storage.
type ExportService interface {
	// Export reads every item in storage order, uploads them as one JSON array and
	// returns a pre-signed download link.
	Export(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	store storage.Storage
	repo  repository.PantryItemRepository
	now   func() time.Time
}

// NewExportService constructs a new ExportService.
func NewExportService(store storage.Storage, repo repository.PantryItemRepository) ExportService {
	return &exportService{store: store, repo: repo, now: time.Now}
}

func (s *exportService) Export(ctx context.Context) (res *ExportResult, err error) {
	ctx, span := startSpan(ctx, "ExportService.Export")
	defer func() { endSpan(span, err) }()

	items := make([]model.PantryItem, 0)
	for offset := 0; ; offset += exportBatchSize {
		page, err := s.repo.List(ctx, repository.PageQuery{Limit: exportBatchSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("read pantry items: %w", err)
		}
		items = append(items, page...)
		if len(page) < exportBatchSize {
			break
		}
	}

	body, err := json.Marshal(model.NewPantryItemOutputs(items))
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := exportPrefix + s.now().UTC().Format("20060102T150405Z") + ".json"
	span.SetAttributes(attribute.String("export.key", key), attribute.Int("export.count", len(items)))

	if _, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"item-count": strconv.Itoa(len(items))},
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	link, err := s.store.PresignGet(ctx, key, ExportLinkTTL)
	if err != nil {
		// Rollback: an export nobody can download is removed.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign failed: %w", err)
	}

	return &ExportResult{Key: key, Count: len(items), URL: link}, nil
}
