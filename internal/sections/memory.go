package sections

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemorySectionRepository is an in-memory section store for scaffolding/tests.
type MemorySectionRepository struct {
	mu       sync.RWMutex
	sections map[uuid.UUID]*GlobalSection
	keyIndex map[string]uuid.UUID
}

// NewMemorySectionRepository constructs the repository.
func NewMemorySectionRepository() *MemorySectionRepository {
	return &MemorySectionRepository{
		sections: make(map[uuid.UUID]*GlobalSection),
		keyIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemorySectionRepository) Create(_ context.Context, record *GlobalSection) (*GlobalSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneSection(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.sections[copied.ID] = copied
	m.keyIndex[sectionKeyIndex(copied.WorkspaceID, copied.Key)] = copied.ID
	return cloneSection(copied), nil
}

func (m *MemorySectionRepository) GetByID(_ context.Context, id uuid.UUID) (*GlobalSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.sections[id]
	if !ok {
		return nil, &SectionNotFoundError{Key: id.String()}
	}
	return cloneSection(record), nil
}

func (m *MemorySectionRepository) GetByKey(_ context.Context, workspaceID uuid.UUID, key string) (*GlobalSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.keyIndex[sectionKeyIndex(workspaceID, key)]
	if !ok {
		return nil, &SectionNotFoundError{Key: key}
	}
	return cloneSection(m.sections[id]), nil
}

func (m *MemorySectionRepository) List(_ context.Context, workspaceID uuid.UUID) ([]*GlobalSection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*GlobalSection{}
	for _, record := range m.sections {
		if record == nil || record.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, cloneSection(record))
	}
	return out, nil
}

func (m *MemorySectionRepository) Update(_ context.Context, record *GlobalSection) (*GlobalSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sections[record.ID]
	if !ok {
		return nil, &SectionNotFoundError{Key: record.ID.String()}
	}
	if current.Key != record.Key {
		delete(m.keyIndex, sectionKeyIndex(current.WorkspaceID, current.Key))
	}
	updated := cloneSection(record)
	m.sections[record.ID] = updated
	m.keyIndex[sectionKeyIndex(updated.WorkspaceID, updated.Key)] = updated.ID
	return cloneSection(updated), nil
}

func sectionKeyIndex(workspaceID uuid.UUID, key string) string {
	return workspaceID.String() + "|" + strings.TrimSpace(key)
}

func cloneSection(src *GlobalSection) *GlobalSection {
	if src == nil {
		return nil
	}
	copied := *src
	copied.DraftContent = cloneContent(src.DraftContent)
	copied.PublishedContent = cloneContent(src.PublishedContent)
	if src.DeletedAt != nil {
		deleted := *src.DeletedAt
		copied.DeletedAt = &deleted
	}
	return &copied
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
			cloned := make([]any, len(typed))
			for i, item := range typed {
				if nested, ok := item.(map[string]any); ok {
					cloned[i] = cloneContent(nested)
					continue
				}
				cloned[i] = item
			}
			out[k] = cloned
		default:
			out[k] = v
		}
	}
	return out
}
