package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is one publishable unit, unique per (workspace, slug). Draft and
// published content are stored side by side as serialized documents; the
// version history lives in PageVersion rows.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID                   uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	WorkspaceID          uuid.UUID      `bun:"workspace_id,notnull,type:uuid" json:"workspace_id"`
	Title                string         `bun:"title,notnull" json:"title"`
	Slug                 string         `bun:"slug,notnull" json:"slug"`
	Status               string         `bun:"status,notnull" json:"status"`
	DraftContent         map[string]any `bun:"draft_content,type:jsonb,nullzero" json:"draft_content,omitempty"`
	PublishedContent     map[string]any `bun:"published_content,type:jsonb,nullzero" json:"published_content,omitempty"`
	ScheduledPublishAt   *time.Time     `bun:"scheduled_publish_at,nullzero" json:"scheduled_publish_at,omitempty"`
	ScheduledUnpublishAt *time.Time     `bun:"scheduled_unpublish_at,nullzero" json:"scheduled_unpublish_at,omitempty"`
	DeletedAt            *time.Time     `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt            time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// PageVersion is an immutable numbered snapshot, unique per (page, version).
// Version numbers are strictly increasing per page; the snapshot never
// changes after creation.
type PageVersion struct {
	bun.BaseModel `bun:"table:page_versions,alias:pv"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	PageID    uuid.UUID      `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Version   int            `bun:"version,notnull" json:"version"`
	Snapshot  map[string]any `bun:"snapshot,type:jsonb,notnull" json:"snapshot"`
	CreatedBy string         `bun:"created_by,nullzero" json:"created_by,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
