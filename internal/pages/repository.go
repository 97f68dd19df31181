package pages

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository abstracts storage for pages and their version history.
//
// CreateNextVersion owns the critical read-max-then-write cycle: it must
// assign version numbers serialized per page. Implementations either hold a
// lock (memory) or run the assignment inside a transaction (bun); a lost
// race surfaces as ErrVersionConflict so the service can retry.
type PageRepository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*Page, error)
	ListBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) ([]*Page, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	ListDueToPublish(ctx context.Context, now time.Time) ([]*Page, error)
	ListDueToUnpublish(ctx context.Context, now time.Time) ([]*Page, error)

	CreateNextVersion(ctx context.Context, pageID uuid.UUID, snapshot map[string]any, createdBy string) (*PageVersion, error)
	ListVersions(ctx context.Context, pageID uuid.UUID) ([]*PageVersion, error)
	GetVersion(ctx context.Context, pageID uuid.UUID, number int) (*PageVersion, error)
	GetLatestVersion(ctx context.Context, pageID uuid.UUID) (*PageVersion, error)
}

// NewPageModelRepository builds the generic bun-backed repository for pages.
func NewPageModelRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

// NewPageVersionModelRepository builds the generic bun-backed repository for versions.
func NewPageVersionModelRepository(db *bun.DB) repository.Repository[*PageVersion] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageVersion]{
		NewRecord: func() *PageVersion { return &PageVersion{} },
		GetID: func(pv *PageVersion) uuid.UUID {
			return pv.ID
		},
		SetID: func(pv *PageVersion, id uuid.UUID) {
			pv.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(pv *PageVersion) string {
			return pv.ID.String()
		},
	})
}
