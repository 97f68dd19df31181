package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunPageRepository persists pages and versions through bun.
type BunPageRepository struct {
	db       *bun.DB
	repo     repository.Repository[*Page]
	versions repository.Repository[*PageVersion]
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	return &BunPageRepository{
		db:       db,
		repo:     wrapWithCache(NewPageModelRepository(db), cacheService, keySerializer),
		versions: wrapWithCache(NewPageVersionModelRepository(db), cacheService, keySerializer),
	}
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return result, nil
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workspace_id = ?", workspaceID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Key: slug}
	}
	return records[0], nil
}

func (r *BunPageRepository) ListBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.workspace_id = ?", workspaceID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.scheduled_publish_at ASC NULLS LAST")
		}),
	)
	return records, err
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"slug",
			"status",
			"draft_content",
			"published_content",
			"scheduled_publish_at",
			"scheduled_unpublish_at",
			"deleted_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.ID.String())
	}
	return updated, nil
}

func (r *BunPageRepository) ListDueToPublish(ctx context.Context, now time.Time) ([]*Page, error) {
	return r.listDue(ctx, string(domain.StatusScheduled), "scheduled_publish_at", now)
}

func (r *BunPageRepository) ListDueToUnpublish(ctx context.Context, now time.Time) ([]*Page, error) {
	return r.listDue(ctx, string(domain.StatusPublished), "scheduled_unpublish_at", now)
}

func (r *BunPageRepository) listDue(ctx context.Context, status, column string, now time.Time) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", status)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias."+column+" IS NOT NULL AND ?TableAlias."+column+" <= ?", now)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL")
		}),
	)
	return records, err
}

// CreateNextVersion runs the max+1 read and the insert inside one
// transaction. The unique index on (page_id, version) backstops racing
// transactions; a violation maps to ErrVersionConflict for the service to
// retry.
func (r *BunPageRepository) CreateNextVersion(ctx context.Context, pageID uuid.UUID, snapshot map[string]any, createdBy string) (*PageVersion, error) {
	if r.db == nil {
		return nil, fmt.Errorf("page repository: database not configured")
	}

	var created *PageVersion
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var current int
		if err := tx.NewSelect().
			Model((*PageVersion)(nil)).
			ColumnExpr("COALESCE(MAX(?TableAlias.version), 0)").
			Where("?TableAlias.page_id = ?", pageID).
			Scan(ctx, &current); err != nil {
			return fmt.Errorf("read max version: %w", err)
		}

		version := &PageVersion{
			ID:        uuid.New(),
			PageID:    pageID,
			Version:   current + 1,
			Snapshot:  snapshot,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(version).Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return ErrVersionConflict
			}
			return fmt.Errorf("insert page version: %w", err)
		}
		created = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPageRepository) ListVersions(ctx context.Context, pageID uuid.UUID) ([]*PageVersion, error) {
	records, _, err := r.versions.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version ASC")
		}),
	)
	return records, err
}

func (r *BunPageRepository) GetVersion(ctx context.Context, pageID uuid.UUID, number int) (*PageVersion, error) {
	records, _, err := r.versions.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.version = ?", number)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &PageVersionNotFoundError{PageID: pageID, Version: number}
	}
	return records[0], nil
}

func (r *BunPageRepository) GetLatestVersion(ctx context.Context, pageID uuid.UUID) (*PageVersion, error) {
	records, _, err := r.versions.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.page_id = ?", pageID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.version DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &PageVersionNotFoundError{PageID: pageID}
	}
	return records[0], nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
