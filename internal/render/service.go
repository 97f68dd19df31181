package render

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/document"
	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/rendercache"
	"github.com/goliatone/go-pagebuilder/internal/resolver"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrNotFound indicates the request does not map to a servable page: the
// page is missing, deleted, or not visible for a non-draft request.
var ErrNotFound = errors.New("render: page not found")

// Request identifies one render.
type Request struct {
	WorkspaceID uuid.UUID
	Slug        string
	Locale      string
	Draft       bool
}

// Result is a completed render.
type Result struct {
	HTML        string
	Diagnostics Diagnostics
	Metadata    rendercache.Metadata
	FromCache   bool
}

// Service is the public render surface.
type Service interface {
	Render(ctx context.Context, req Request) (*Result, error)
	Purge(ctx context.Context, workspaceID uuid.UUID, locale, slug string) error
}

// ServiceOption configures the render service.
type ServiceOption func(*service)

// WithCache fronts non-draft renders with the store.
func WithCache(store *rendercache.Store) ServiceOption {
	return func(s *service) {
		s.cache = store
	}
}

// WithTheme replaces the default token set.
func WithTheme(theme Theme) ServiceOption {
	return func(s *service) {
		s.theme = theme
	}
}

// WithBaseURL sets the origin used for canonical URLs.
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *service) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithDefaultLocale sets the locale used when a request carries none.
func WithDefaultLocale(locale string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(locale) != "" {
			s.defaultLocale = strings.TrimSpace(locale)
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithServiceLogger attaches a logger provider.
func WithServiceLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.RenderLogger(provider)
	}
}

type service struct {
	pages         pages.Service
	resolver      *resolver.Resolver
	renderer      *Renderer
	cache         *rendercache.Store
	theme         Theme
	baseURL       string
	defaultLocale string
	now           func() time.Time
	logger        interfaces.Logger
}

// NewService wires the render pipeline: page lookup, reference resolution,
// tree walk, cache write-back.
func NewService(pageService pages.Service, res *resolver.Resolver, renderer *Renderer, opts ...ServiceOption) Service {
	s := &service{
		pages:         pageService,
		resolver:      res,
		renderer:      renderer,
		theme:         DefaultTheme(),
		defaultLocale: "en",
		now:           time.Now,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = NewRenderer()
	}
	return s
}

func (s *service) Render(ctx context.Context, req Request) (*Result, error) {
	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = s.defaultLocale
	}
	key := rendercache.Key{
		WorkspaceID: req.WorkspaceID,
		Locale:      locale,
		Slug:        req.Slug,
		Draft:       req.Draft,
	}

	if entry, ok := s.cache.Get(ctx, key); ok {
		result := &Result{
			HTML:      entry.HTML,
			Metadata:  entry.Metadata,
			FromCache: true,
		}
		if len(entry.Diagnostics) > 0 {
			if err := json.Unmarshal(entry.Diagnostics, &result.Diagnostics); err != nil {
				s.logger.Debug("cached diagnostics unreadable", "key", key.String(), "error", err)
			}
		}
		return result, nil
	}

	page, err := s.pages.GetBySlug(ctx, req.WorkspaceID, req.Slug)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if page.DeletedAt != nil {
		return nil, ErrNotFound
	}

	now := s.now()
	if !req.Draft && !visibleAt(page, now) {
		return nil, ErrNotFound
	}

	content := page.PublishedContent
	if req.Draft {
		content = page.DraftContent
		if content == nil {
			content = page.PublishedContent
		}
	}
	if content == nil {
		return nil, ErrNotFound
	}

	doc, err := document.Parse(content)
	if err != nil {
		return nil, err
	}

	refs := document.CollectReferences(doc)
	resolution := s.resolver.Resolve(ctx, req.WorkspaceID, refs)

	diagnostics := NewDiagnostics(locale)
	html, err := s.renderer.RenderDocument(doc, resolution, s.theme, diagnostics)
	if err != nil {
		return nil, err
	}

	metadata := rendercache.Metadata{
		Title:        page.Title,
		CanonicalURL: s.canonicalURL(page.Slug),
		Locale:       locale,
	}

	if !req.Draft {
		encoded, err := json.Marshal(diagnostics)
		if err == nil {
			entry := &rendercache.Entry{HTML: html, Diagnostics: encoded, Metadata: metadata}
			if err := s.cache.Set(ctx, key, entry); err != nil {
				s.logger.Warn("render cache write-back failed", "key", key.String(), "error", err)
			}
		}
	}

	return &Result{
		HTML:        html,
		Diagnostics: *diagnostics,
		Metadata:    metadata,
	}, nil
}

// Purge drops cached renders for the page, both draft variants. Lifecycle
// callers invoke this after publish, rollback, and demotion.
func (s *service) Purge(ctx context.Context, workspaceID uuid.UUID, locale, slug string) error {
	if strings.TrimSpace(locale) == "" {
		locale = s.defaultLocale
	}
	return s.cache.Purge(ctx, workspaceID, locale, slug)
}

// visibleAt applies the public serving rules: published, or scheduled with
// an elapsed publish time, and not past an elapsed unpublish time.
func visibleAt(page *pages.Page, now time.Time) bool {
	scheduledLive := page.Status == domain.StatusScheduled.String() &&
		page.ScheduledPublishAt != nil && !page.ScheduledPublishAt.After(now)
	published := page.Status == domain.StatusPublished.String()
	if !published && !scheduledLive {
		return false
	}
	if page.ScheduledUnpublishAt != nil && page.ScheduledUnpublishAt.Before(now) {
		return false
	}
	return true
}

func (s *service) canonicalURL(slug string) string {
	path := rendercache.NormalizeSlug(slug)
	if s.baseURL == "" {
		return path
	}
	if path == "/" {
		return s.baseURL + "/"
	}
	return s.baseURL + path
}
