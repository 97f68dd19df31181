package pages

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// versionAssignRetries bounds how often a publish retries a lost
// version-number race before surfacing ErrVersionConflict.
const versionAssignRetries = 3

// Service owns every page state transition and its version bookkeeping.
type Service interface {
	UpsertDraft(ctx context.Context, req UpsertDraftRequest) (*Page, error)
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
	Rollback(ctx context.Context, req RollbackRequest) (*Page, error)
	ChangeStatus(ctx context.Context, pageID uuid.UUID, status string) (*Page, error)
	Rename(ctx context.Context, pageID uuid.UUID, title, slug string) (*Page, error)
	SoftDelete(ctx context.Context, pageID uuid.UUID) (*Page, error)
	FindScheduleConflicts(ctx context.Context, workspaceID uuid.UUID, slug string) ([]*Page, error)
	Get(ctx context.Context, pageID uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, workspaceID uuid.UUID, slug string) (*Page, error)
	ListVersions(ctx context.Context, pageID uuid.UUID) ([]*PageVersion, error)
}

// Optional distinguishes "leave unchanged" from "clear" for nullable fields.
// A zero Optional leaves the stored value untouched; Null clears it.
type Optional[T any] struct {
	Valid bool
	Value *T
}

// Assign marks the field as provided with a concrete value.
func Assign[T any](value T) Optional[T] {
	return Optional[T]{Valid: true, Value: &value}
}

// Null marks the field as provided with an explicit clear.
func Null[T any]() Optional[T] {
	return Optional[T]{Valid: true}
}

// UpsertDraftRequest captures a draft edit. The page is created on first use
// of a slug. Nil pointer fields are left unchanged; Optional fields carry
// the provided/cleared distinction for nullable columns.
type UpsertDraftRequest struct {
	WorkspaceID          uuid.UUID
	Slug                 string
	Title                *string
	DraftContent         Optional[map[string]any]
	Status               *string
	ScheduledPublishAt   Optional[time.Time]
	ScheduledUnpublishAt Optional[time.Time]
}

// PublishRequest captures an interactive or sweep-driven publish.
// Snapshot is optional; when nil the draft content is published.
type PublishRequest struct {
	PageID    uuid.UUID
	Snapshot  map[string]any
	CreatedBy string
}

// PublishResult pairs the updated page with the version it created.
type PublishResult struct {
	Page    *Page
	Version *PageVersion
}

// RollbackRequest restores the content of a prior version as a new version.
type RollbackRequest struct {
	PageID    uuid.UUID
	Version   int
	CreatedBy string
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

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a logger provider for lifecycle audit entries.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.PagesLogger(provider)
	}
}

type service struct {
	repo   PageRepository
	now    func() time.Time
	id     IDGenerator
	logger interfaces.Logger
}

// NewService constructs a page lifecycle service.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertDraft creates or updates the draft side of a page. An edit always
// clears the soft-delete marker.
func (s *service) UpsertDraft(ctx context.Context, req UpsertDraftRequest) (*Page, error) {
	if req.WorkspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	slugPath, err := normalizeSlugPath(req.Slug)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if _, err := domain.ParseStatus(*req.Status); err != nil {
			return nil, ErrStatusInvalid
		}
	}
	if bothProvided(req.ScheduledPublishAt, req.ScheduledUnpublishAt) {
		if !req.ScheduledUnpublishAt.Value.After(*req.ScheduledPublishAt.Value) {
			return nil, ErrScheduleWindowInvalid
		}
	}

	now := s.now().UTC()
	page, err := s.repo.GetBySlug(ctx, req.WorkspaceID, slugPath)
	switch {
	case err == nil:
	case errors.Is(err, ErrPageNotFound):
		page = &Page{
			ID:          s.id(),
			WorkspaceID: req.WorkspaceID,
			Slug:        slugPath,
			Title:       defaultTitleFromSlug(slugPath),
			Status:      string(domain.StatusDraft),
			CreatedAt:   now,
		}
		if page, err = s.repo.Create(ctx, page); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if req.Title != nil {
		if trimmed := strings.TrimSpace(*req.Title); trimmed != "" {
			page.Title = trimmed
		}
	}
	if req.DraftContent.Valid {
		if req.DraftContent.Value != nil {
			page.DraftContent = cloneContent(*req.DraftContent.Value)
		} else {
			page.DraftContent = nil
		}
	}
	if req.Status != nil {
		page.Status = strings.ToLower(strings.TrimSpace(*req.Status))
	}
	if req.ScheduledPublishAt.Valid {
		page.ScheduledPublishAt = cloneTimePointer(req.ScheduledPublishAt.Value)
	}
	if req.ScheduledUnpublishAt.Valid {
		page.ScheduledUnpublishAt = cloneTimePointer(req.ScheduledUnpublishAt.Value)
	}

	page.DeletedAt = nil
	page.UpdatedAt = now

	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("draft upserted", "page_id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

// Publish snapshots the page content as the next version and promotes the
// page. The content fallback chain is resolveSnapshot.
func (s *service) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	page, err := s.repo.GetByID(ctx, req.PageID)
	if err != nil {
		return nil, err
	}

	snapshot := resolveSnapshot(req.Snapshot, page)
	version, err := s.createNextVersion(ctx, page.ID, snapshot, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	page.Status = string(domain.StatusPublished)
	page.PublishedContent = cloneContent(snapshot)
	page.ScheduledPublishAt = nil
	page.DeletedAt = nil
	page.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page published", "page_id", updated.ID, "slug", updated.Slug, "version", version.Version)
	return &PublishResult{Page: updated, Version: version}, nil
}

// Rollback creates a new version carrying the target version's snapshot.
// History is append-only; the target version itself is never modified.
func (s *service) Rollback(ctx context.Context, req RollbackRequest) (*Page, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if req.Version <= 0 {
		return nil, ErrVersionRequired
	}
	page, err := s.repo.GetByID(ctx, req.PageID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetVersion(ctx, page.ID, req.Version)
	if err != nil {
		return nil, err
	}

	createdBy := req.CreatedBy
	if strings.TrimSpace(createdBy) == "" {
		createdBy = "rollback"
	}
	snapshot := cloneContent(target.Snapshot)
	version, err := s.createNextVersion(ctx, page.ID, snapshot, createdBy)
	if err != nil {
		return nil, err
	}

	page.Status = string(domain.StatusPublished)
	page.PublishedContent = cloneContent(snapshot)
	page.ScheduledUnpublishAt = nil
	page.DeletedAt = nil
	page.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	s.logger.Info("page rolled back", "page_id", updated.ID, "target_version", req.Version, "new_version", version.Version)
	return updated, nil
}

// ChangeStatus flips the lifecycle state without any version bookkeeping.
func (s *service) ChangeStatus(ctx context.Context, pageID uuid.UUID, status string) (*Page, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, ErrStatusInvalid
	}
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	page.Status = string(parsed)
	page.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, page)
}

// Rename updates title and slug together.
func (s *service) Rename(ctx context.Context, pageID uuid.UUID, title, rawSlug string) (*Page, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	slugPath, err := normalizeSlugPath(rawSlug)
	if err != nil {
		return nil, err
	}
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	page.Title = strings.TrimSpace(title)
	page.Slug = slugPath
	page.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, page)
}

// SoftDelete flags the page and forces it back to draft. The page stays in
// storage; an upsert on the same slug revives it.
func (s *service) SoftDelete(ctx context.Context, pageID uuid.UUID) (*Page, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	page.DeletedAt = &now
	page.Status = string(domain.StatusDraft)
	page.UpdatedAt = now
	return s.repo.Update(ctx, page)
}

// FindScheduleConflicts returns the non-draft, non-deleted pages holding the
// slug, ordered by scheduled publish time. Callers decide what overlap means;
// the service only exposes the conflict set.
func (s *service) FindScheduleConflicts(ctx context.Context, workspaceID uuid.UUID, rawSlug string) ([]*Page, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	slugPath, err := normalizeSlugPath(rawSlug)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListBySlug(ctx, workspaceID, slugPath)
	if err != nil {
		return nil, err
	}
	out := make([]*Page, 0, len(records))
	for _, record := range records {
		if record == nil || record.DeletedAt != nil {
			continue
		}
		if record.Status == string(domain.StatusDraft) {
			continue
		}
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scheduleSortKey(out[i]).Before(scheduleSortKey(out[j]))
	})
	return out, nil
}

func (s *service) Get(ctx context.Context, pageID uuid.UUID) (*Page, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.GetByID(ctx, pageID)
}

func (s *service) GetBySlug(ctx context.Context, workspaceID uuid.UUID, rawSlug string) (*Page, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrWorkspaceRequired
	}
	slugPath, err := normalizeSlugPath(rawSlug)
	if err != nil {
		return nil, err
	}
	return s.repo.GetBySlug(ctx, workspaceID, slugPath)
}

func (s *service) ListVersions(ctx context.Context, pageID uuid.UUID) ([]*PageVersion, error) {
	if pageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.ListVersions(ctx, pageID)
}

func (s *service) createNextVersion(ctx context.Context, pageID uuid.UUID, snapshot map[string]any, createdBy string) (*PageVersion, error) {
	var lastErr error
	for attempt := 0; attempt < versionAssignRetries; attempt++ {
		version, err := s.repo.CreateNextVersion(ctx, pageID, snapshot, createdBy)
		if err == nil {
			return version, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("version assignment conflict, retrying", "page_id", pageID, "attempt", attempt+1)
	}
	return nil, lastErr
}

// resolveSnapshot picks the content a publish persists: the explicit
// snapshot, else the draft, else the previously published content, else an
// empty canvas. The order is load-bearing; keep the four cases covered by
// tests.
func resolveSnapshot(snapshot map[string]any, page *Page) map[string]any {
	switch {
	case snapshot != nil:
		return snapshot
	case page != nil && page.DraftContent != nil:
		return page.DraftContent
	case page != nil && page.PublishedContent != nil:
		return page.PublishedContent
	default:
		return emptyContent()
	}
}

func emptyContent() map[string]any {
	return map[string]any{
		"ROOT": map[string]any{
			"type":  map[string]any{"resolvedName": "PageCanvas"},
			"props": map[string]any{},
		},
	}
}

func bothProvided(a, b Optional[time.Time]) bool {
	return a.Valid && a.Value != nil && b.Valid && b.Value != nil
}

// normalizeSlugPath validates a slash-separated slug path segment by
// segment. The root path "/" is allowed; every other segment must pass slug
// validation or be normalizable.
func normalizeSlugPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "/", nil
	}
	segments := strings.Split(trimmed, "/")
	for i, segment := range segments {
		if slug.IsValid(segment) {
			segments[i] = segment
			continue
		}
		normalized, err := slug.Normalize(segment)
		if err != nil || normalized == "" {
			return "", ErrSlugInvalid
		}
		segments[i] = normalized
	}
	return "/" + strings.Join(segments, "/"), nil
}

var titleSeparators = regexp.MustCompile(`[-_/]+`)

// defaultTitleFromSlug derives a human title from a slug path, replacing
// separators with spaces: "/about-us" becomes "about us".
func defaultTitleFromSlug(slugPath string) string {
	title := strings.TrimSpace(titleSeparators.ReplaceAllString(slugPath, " "))
	if title == "" {
		return "home"
	}
	return title
}
