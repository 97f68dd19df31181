package sections

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunSectionRepository persists global sections through bun.
type BunSectionRepository struct {
	repo repository.Repository[*GlobalSection]
}

func NewBunSectionRepository(db *bun.DB) *BunSectionRepository {
	return NewBunSectionRepositoryWithCache(db, nil, nil)
}

// NewBunSectionRepositoryWithCache constructs a SectionRepository backed by bun with optional caching.
func NewBunSectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSectionRepository {
	base := NewSectionModelRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunSectionRepository{repo: base}
}

func (r *BunSectionRepository) Create(ctx context.Context, record *GlobalSection) (*GlobalSection, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*GlobalSection, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

func (r *BunSectionRepository) GetByKey(ctx context.Context, workspaceID uuid.UUID, key string) (*GlobalSection, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workspace_id = ?", workspaceID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.key = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	if len(records) == 0 {
		return nil, &SectionNotFoundError{Key: key}
	}
	return records[0], nil
}

func (r *BunSectionRepository) List(ctx context.Context, workspaceID uuid.UUID) ([]*GlobalSection, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workspace_id = ?", workspaceID)
		}),
	)
	return records, err
}

func (r *BunSectionRepository) Update(ctx context.Context, record *GlobalSection) (*GlobalSection, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"name",
			"key",
			"status",
			"draft_content",
			"published_content",
			"deleted_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &SectionNotFoundError{Key: key}
	}
	return fmt.Errorf("section repository error: %w", err)
}
