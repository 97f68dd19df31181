package pages

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for scaffolding/tests.
// Version assignment happens under the store lock, so it is inherently
// serialized per page.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
	versions  map[uuid.UUID][]*PageVersion
	id        func() uuid.UUID
	now       func() time.Time
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
		versions:  make(map[uuid.UUID][]*PageVersion),
		id:        uuid.New,
		now:       time.Now,
	}
}

// Create inserts the supplied page.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePage(record)
	if copied.ID == uuid.Nil {
		copied.ID = m.id()
	}
	m.pages[copied.ID] = copied
	m.slugIndex[pageSlugKey(copied.WorkspaceID, copied.Slug)] = copied.ID
	return clonePage(copied), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(page), nil
}

// GetBySlug retrieves a page by workspace and slug.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, workspaceID uuid.UUID, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[pageSlugKey(workspaceID, slug)]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return clonePage(m.pages[id]), nil
}

// ListBySlug returns every page matching the workspace and slug.
func (m *MemoryPageRepository) ListBySlug(_ context.Context, workspaceID uuid.UUID, slug string) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Page{}
	for _, record := range m.pages {
		if record == nil || record.WorkspaceID != workspaceID {
			continue
		}
		if strings.TrimSpace(record.Slug) != strings.TrimSpace(slug) {
			continue
		}
		out = append(out, clonePage(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return scheduleSortKey(out[i]).Before(scheduleSortKey(out[j]))
	})
	return out, nil
}

// Update persists field changes for a page. The stored record is replaced
// wholesale; callers pass the full desired state.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}

	if current.Slug != record.Slug {
		delete(m.slugIndex, pageSlugKey(current.WorkspaceID, current.Slug))
	}
	updated := clonePage(record)
	m.pages[record.ID] = updated
	m.slugIndex[pageSlugKey(updated.WorkspaceID, updated.Slug)] = updated.ID
	return clonePage(updated), nil
}

// ListDueToPublish returns scheduled, non-deleted pages whose publish time has elapsed.
func (m *MemoryPageRepository) ListDueToPublish(_ context.Context, now time.Time) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Page{}
	for _, record := range m.pages {
		if record == nil || record.DeletedAt != nil {
			continue
		}
		if record.Status != string(domain.StatusScheduled) {
			continue
		}
		if record.ScheduledPublishAt == nil || record.ScheduledPublishAt.After(now) {
			continue
		}
		out = append(out, clonePage(record))
	}
	return out, nil
}

// ListDueToUnpublish returns published, non-deleted pages whose unpublish time has elapsed.
func (m *MemoryPageRepository) ListDueToUnpublish(_ context.Context, now time.Time) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Page{}
	for _, record := range m.pages {
		if record == nil || record.DeletedAt != nil {
			continue
		}
		if record.Status != string(domain.StatusPublished) {
			continue
		}
		if record.ScheduledUnpublishAt == nil || record.ScheduledUnpublishAt.After(now) {
			continue
		}
		out = append(out, clonePage(record))
	}
	return out, nil
}

// CreateNextVersion assigns max+1 for the page and stores the snapshot. The
// whole cycle runs under the write lock, so concurrent callers serialize.
func (m *MemoryPageRepository) CreateNextVersion(_ context.Context, pageID uuid.UUID, snapshot map[string]any, createdBy string) (*PageVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pages[pageID]; !ok {
		return nil, &PageNotFoundError{Key: pageID.String()}
	}

	next := 1
	for _, existing := range m.versions[pageID] {
		if existing != nil && existing.Version >= next {
			next = existing.Version + 1
		}
	}

	version := &PageVersion{
		ID:        m.id(),
		PageID:    pageID,
		Version:   next,
		Snapshot:  cloneContent(snapshot),
		CreatedBy: createdBy,
		CreatedAt: m.now().UTC(),
	}
	m.versions[pageID] = append(m.versions[pageID], version)
	return clonePageVersion(version), nil
}

// ListVersions returns all recorded versions for a page, ascending.
func (m *MemoryPageRepository) ListVersions(_ context.Context, pageID uuid.UUID) ([]*PageVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := clonePageVersions(m.versions[pageID])
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// GetVersion retrieves a specific version number for a page.
func (m *MemoryPageRepository) GetVersion(_ context.Context, pageID uuid.UUID, number int) (*PageVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, version := range m.versions[pageID] {
		if version != nil && version.Version == number {
			return clonePageVersion(version), nil
		}
	}
	return nil, &PageVersionNotFoundError{PageID: pageID, Version: number}
}

// GetLatestVersion retrieves the highest-numbered version of a page.
func (m *MemoryPageRepository) GetLatestVersion(_ context.Context, pageID uuid.UUID) (*PageVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *PageVersion
	for _, version := range m.versions[pageID] {
		if version == nil {
			continue
		}
		if latest == nil || version.Version > latest.Version {
			latest = version
		}
	}
	if latest == nil {
		return nil, &PageVersionNotFoundError{PageID: pageID}
	}
	return clonePageVersion(latest), nil
}

func pageSlugKey(workspaceID uuid.UUID, slug string) string {
	return workspaceID.String() + "|" + strings.TrimSpace(slug)
}

func scheduleSortKey(page *Page) time.Time {
	if page == nil || page.ScheduledPublishAt == nil {
		// pages without a publish window sort last
		return time.Unix(1<<60, 0)
	}
	return *page.ScheduledPublishAt
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	copied.DraftContent = cloneContent(src.DraftContent)
	copied.PublishedContent = cloneContent(src.PublishedContent)
	copied.ScheduledPublishAt = cloneTimePointer(src.ScheduledPublishAt)
	copied.ScheduledUnpublishAt = cloneTimePointer(src.ScheduledUnpublishAt)
	copied.DeletedAt = cloneTimePointer(src.DeletedAt)
	return &copied
}

func clonePageVersions(src []*PageVersion) []*PageVersion {
	if len(src) == 0 {
		return nil
	}
	out := make([]*PageVersion, len(src))
	for i, version := range src {
		out[i] = clonePageVersion(version)
	}
	return out
}

func clonePageVersion(src *PageVersion) *PageVersion {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Snapshot = cloneContent(src.Snapshot)
	return &cloned
}

func cloneContent(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		switch typed := v.(type) {
		case map[string]any:
			out[k] = cloneContent(typed)
		case []any:
			out[k] = cloneSlice(typed)
		default:
			out[k] = v
		}
	}
	return out
}

func cloneSlice(src []any) []any {
	out := make([]any, len(src))
	for i, v := range src {
		switch typed := v.(type) {
		case map[string]any:
			out[i] = cloneContent(typed)
		case []any:
			out[i] = cloneSlice(typed)
		default:
			out[i] = v
		}
	}
	return out
}

func cloneTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
