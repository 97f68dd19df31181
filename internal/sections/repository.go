package sections

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SectionRepository abstracts storage for global sections.
type SectionRepository interface {
	Create(ctx context.Context, record *GlobalSection) (*GlobalSection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*GlobalSection, error)
	GetByKey(ctx context.Context, workspaceID uuid.UUID, key string) (*GlobalSection, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]*GlobalSection, error)
	Update(ctx context.Context, record *GlobalSection) (*GlobalSection, error)
}

// NewSectionModelRepository builds the generic bun-backed repository for sections.
func NewSectionModelRepository(db *bun.DB) repository.Repository[*GlobalSection] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*GlobalSection]{
		NewRecord: func() *GlobalSection { return &GlobalSection{} },
		GetID: func(s *GlobalSection) uuid.UUID {
			return s.ID
		},
		SetID: func(s *GlobalSection, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(s *GlobalSection) string {
			return s.Key
		},
	})
}
