package sections

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GlobalSection is a reusable content fragment keyed by (workspace, key).
// Pages embed sections by key; the content is resolved at render time and
// never inlined into a page's persisted document.
type GlobalSection struct {
	bun.BaseModel `bun:"table:global_sections,alias:gs"`

	ID               uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	WorkspaceID      uuid.UUID      `bun:"workspace_id,notnull,type:uuid" json:"workspace_id"`
	Name             string         `bun:"name,notnull" json:"name"`
	Key              string         `bun:"key,notnull" json:"key"`
	Status           string         `bun:"status,notnull" json:"status"`
	DraftContent     map[string]any `bun:"draft_content,type:jsonb,nullzero" json:"draft_content,omitempty"`
	PublishedContent map[string]any `bun:"published_content,type:jsonb,nullzero" json:"published_content,omitempty"`
	DeletedAt        *time.Time     `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt        time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Content returns the document a renderer should embed: the published
// content, falling back to the draft for sections that were never published.
func (s *GlobalSection) Content() map[string]any {
	if s == nil {
		return nil
	}
	if s.PublishedContent != nil {
		return s.PublishedContent
	}
	return s.DraftContent
}
