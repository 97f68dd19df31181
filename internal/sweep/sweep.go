package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// PageError records one failed transition. The sweep never aborts on a
// per-page failure; errors are collected and reported together.
type PageError struct {
	PageID uuid.UUID
	Err    error
}

// Result summarizes one sweep run.
type Result struct {
	Published   []uuid.UUID
	Unpublished []uuid.UUID
	Errors      []PageError
}

// CachePurger invalidates cached renders after a lifecycle transition.
type CachePurger interface {
	Purge(ctx context.Context, workspaceID uuid.UUID, locale, slug string) error
}

// Option configures the sweeper.
type Option func(*Sweeper)

// WithPurger wires cache invalidation for the given locales.
func WithPurger(purger CachePurger, locales ...string) Option {
	return func(s *Sweeper) {
		s.purger = purger
		if len(locales) > 0 {
			s.locales = locales
		}
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(s *Sweeper) {
		s.logger = logging.SweepLogger(provider)
	}
}

// Sweeper promotes scheduled pages whose publish time has elapsed and
// demotes published pages whose unpublish time has elapsed. Promotion runs
// through the same publish path as interactive publishing so versioning
// side effects are identical; demotion only flips status.
type Sweeper struct {
	repo      pages.PageRepository
	lifecycle pages.Service
	purger    CachePurger
	locales   []string
	logger    interfaces.Logger
}

// New constructs a sweeper over the page repository and lifecycle service.
func New(repo pages.PageRepository, lifecycle pages.Service, opts ...Option) *Sweeper {
	s := &Sweeper{
		repo:      repo,
		lifecycle: lifecycle,
		locales:   []string{"en"},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes both passes for the reference time. The two passes are
// independent; a page cannot match both predicates because it cannot be
// scheduled and published at once.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (*Result, error) {
	result := &Result{
		Published:   []uuid.UUID{},
		Unpublished: []uuid.UUID{},
		Errors:      []PageError{},
	}

	due, err := s.repo.ListDueToPublish(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, page := range due {
		if err := s.promote(ctx, page.ID, now); err != nil {
			result.Errors = append(result.Errors, PageError{PageID: page.ID, Err: err})
			s.logger.Error("scheduled publish failed", "page_id", page.ID, "error", err)
			continue
		}
		result.Published = append(result.Published, page.ID)
		s.purge(ctx, page)
	}

	expired, err := s.repo.ListDueToUnpublish(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, page := range expired {
		demoted, err := s.demote(ctx, page.ID, now)
		if err != nil {
			result.Errors = append(result.Errors, PageError{PageID: page.ID, Err: err})
			s.logger.Error("scheduled unpublish failed", "page_id", page.ID, "error", err)
			continue
		}
		if !demoted {
			continue
		}
		result.Unpublished = append(result.Unpublished, page.ID)
		s.purge(ctx, page)
	}

	s.logger.Info("sweep complete",
		"published", len(result.Published),
		"unpublished", len(result.Unpublished),
		"errors", len(result.Errors))
	return result, nil
}

// promote re-checks the predicate against fresh state before publishing so
// a page edited between selection and processing is skipped silently.
func (s *Sweeper) promote(ctx context.Context, pageID uuid.UUID, now time.Time) error {
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			return nil
		}
		return err
	}
	if !dueToPublish(page, now) {
		return nil
	}
	_, err = s.lifecycle.Publish(ctx, pages.PublishRequest{PageID: pageID, CreatedBy: "scheduler"})
	return err
}

func (s *Sweeper) demote(ctx context.Context, pageID uuid.UUID, now time.Time) (bool, error) {
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			return false, nil
		}
		return false, err
	}
	if !dueToUnpublish(page, now) {
		return false, nil
	}
	if _, err := s.lifecycle.ChangeStatus(ctx, pageID, string(domain.StatusDraft)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sweeper) purge(ctx context.Context, page *pages.Page) {
	if s.purger == nil {
		return
	}
	for _, locale := range s.locales {
		if err := s.purger.Purge(ctx, page.WorkspaceID, locale, page.Slug); err != nil {
			s.logger.Warn("cache purge failed", "page_id", page.ID, "locale", locale, "error", err)
		}
	}
}

func dueToPublish(page *pages.Page, now time.Time) bool {
	return page.Status == string(domain.StatusScheduled) &&
		page.ScheduledPublishAt != nil && !page.ScheduledPublishAt.After(now) &&
		page.DeletedAt == nil
}

func dueToUnpublish(page *pages.Page, now time.Time) bool {
	return page.Status == string(domain.StatusPublished) &&
		page.ScheduledUnpublishAt != nil && !page.ScheduledUnpublishAt.After(now) &&
		page.DeletedAt == nil
}
