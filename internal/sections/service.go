package sections

import (
	"context"
	"errors"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/goliatone/go-pagebuilder/internal/identity"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages reusable section fragments: drafting, publishing, and
// listing for the sections dashboard.
type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*GlobalSection, error)
	Publish(ctx context.Context, sectionID uuid.UUID) (*GlobalSection, error)
	Get(ctx context.Context, workspaceID uuid.UUID, key string) (*GlobalSection, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]*GlobalSection, error)
}

// UpsertRequest creates or updates the draft side of a section.
type UpsertRequest struct {
	WorkspaceID  uuid.UUID
	Key          string
	Name         string
	DraftContent map[string]any
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.SectionsLogger(provider)
	}
}

type service struct {
	repo   SectionRepository
	now    func() time.Time
	logger interfaces.Logger
}

// NewService constructs a section service.
func NewService(repo SectionRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Upsert(ctx context.Context, req UpsertRequest) (*GlobalSection, error) {
	if req.WorkspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	key, err := normalizeKey(req.Key)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record, err := s.repo.GetByKey(ctx, req.WorkspaceID, key)
	switch {
	case err == nil:
	case errors.Is(err, ErrSectionNotFound):
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = key
		}
		record = &GlobalSection{
			ID:          identity.SectionUUID(req.WorkspaceID, key),
			WorkspaceID: req.WorkspaceID,
			Key:         key,
			Name:        name,
			Status:      string(domain.StatusDraft),
			CreatedAt:   now,
		}
		if record, err = s.repo.Create(ctx, record); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		record.Name = name
	}
	if req.DraftContent != nil {
		record.DraftContent = cloneContent(req.DraftContent)
	}
	record.DeletedAt = nil
	record.UpdatedAt = now

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("section upserted", "section_id", updated.ID, "key", updated.Key)
	return updated, nil
}

// Publish promotes the draft content to the published slot.
func (s *service) Publish(ctx context.Context, sectionID uuid.UUID) (*GlobalSection, error) {
	record, err := s.repo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if record.DraftContent != nil {
		record.PublishedContent = cloneContent(record.DraftContent)
	}
	record.Status = string(domain.StatusPublished)
	record.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("section published", "section_id", updated.ID, "key", updated.Key)
	return updated, nil
}

func (s *service) Get(ctx context.Context, workspaceID uuid.UUID, key string) (*GlobalSection, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByKey(ctx, workspaceID, normalized)
}

func (s *service) List(ctx context.Context, workspaceID uuid.UUID) ([]*GlobalSection, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	return s.repo.List(ctx, workspaceID)
}

func normalizeKey(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrKeyRequired
	}
	if slug.IsValid(trimmed) {
		return trimmed, nil
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", ErrKeyInvalid
	}
	return normalized, nil
}
