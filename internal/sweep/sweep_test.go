package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/google/uuid"
)

type fixture struct {
	repo      *pages.MemoryPageRepository
	lifecycle pages.Service
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := pages.NewMemoryPageRepository()
	lifecycle := pages.NewService(repo, pages.WithClock(func() time.Time { return now }))
	return &fixture{repo: repo, lifecycle: lifecycle, now: now}
}

func (f *fixture) seedPage(t *testing.T, mutate func(*pages.Page)) *pages.Page {
	t.Helper()
	page := &pages.Page{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		Title:       "page",
		Slug:        "/page-" + uuid.NewString()[:8],
		Status:      "draft",
		DraftContent: map[string]any{
			"ROOT": map[string]any{"type": map[string]any{"resolvedName": "PageCanvas"}},
		},
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	mutate(page)
	created, err := f.repo.Create(context.Background(), page)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return created
}

func TestSweepPromotesDuePage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := f.now.Add(-time.Second)
	page := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &due
	})

	result, err := New(f.repo, f.lifecycle).Run(ctx, f.now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Published) != 1 || result.Published[0] != page.ID {
		t.Fatalf("expected one promotion, got %+v", result)
	}

	updated, err := f.repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != "published" {
		t.Fatalf("expected published, got %s", updated.Status)
	}
	if updated.ScheduledPublishAt != nil {
		t.Fatal("expected publish time to be cleared")
	}
	if updated.PublishedContent == nil {
		t.Fatal("expected draft content to be promoted")
	}
	versions, err := f.repo.ListVersions(ctx, page.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected exactly one version, got %d", len(versions))
	}
	if versions[0].CreatedBy != "scheduler" {
		t.Fatalf("expected scheduler attribution, got %q", versions[0].CreatedBy)
	}
}

func TestSweepIgnoresFutureSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	future := f.now.Add(time.Second)
	page := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &future
	})

	result, err := New(f.repo, f.lifecycle).Run(ctx, f.now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Published) != 0 {
		t.Fatalf("expected no promotions, got %+v", result.Published)
	}
	updated, _ := f.repo.GetByID(ctx, page.ID)
	if updated.Status != "scheduled" {
		t.Fatalf("expected untouched page, got %s", updated.Status)
	}
}

func TestSweepDemotesExpiredPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	expired := f.now.Add(-time.Second)
	content := map[string]any{
		"ROOT": map[string]any{"type": map[string]any{"resolvedName": "PageCanvas"}},
	}
	page := f.seedPage(t, func(p *pages.Page) {
		p.Status = "published"
		p.PublishedContent = content
		p.ScheduledUnpublishAt = &expired
	})

	result, err := New(f.repo, f.lifecycle).Run(ctx, f.now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Unpublished) != 1 || result.Unpublished[0] != page.ID {
		t.Fatalf("expected one demotion, got %+v", result)
	}

	updated, _ := f.repo.GetByID(ctx, page.ID)
	if updated.Status != "draft" {
		t.Fatalf("expected draft, got %s", updated.Status)
	}
	if updated.PublishedContent == nil {
		t.Fatal("demotion must keep the last published snapshot")
	}
	versions, _ := f.repo.ListVersions(ctx, page.ID)
	if len(versions) != 0 {
		t.Fatalf("demotion must not create versions, got %d", len(versions))
	}
}

func TestSweepSkipsPageChangedAfterSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := f.now.Add(-time.Minute)
	page := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &due
	})

	// simulate a manual publish racing the sweep: the page no longer
	// matches the predicate when re-checked
	if _, err := f.lifecycle.Publish(ctx, pages.PublishRequest{PageID: page.ID, CreatedBy: "editor"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	sweeper := New(f.repo, f.lifecycle)
	if err := sweeper.promote(ctx, page.ID, f.now); err != nil {
		t.Fatalf("promote: %v", err)
	}
	versions, _ := f.repo.ListVersions(ctx, page.ID)
	if len(versions) != 1 {
		t.Fatalf("re-check must not publish again, got %d versions", len(versions))
	}
}

type flakyRepo struct {
	pages.PageRepository
	failVersionsFor uuid.UUID
}

func (r *flakyRepo) CreateNextVersion(ctx context.Context, pageID uuid.UUID, snapshot map[string]any, createdBy string) (*pages.PageVersion, error) {
	if pageID == r.failVersionsFor {
		return nil, errors.New("storage offline")
	}
	return r.PageRepository.CreateNextVersion(ctx, pageID, snapshot, createdBy)
}

func TestSweepIsolatesPerPageFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := f.now.Add(-time.Second)
	broken := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &due
	})
	healthy := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &due
	})

	repo := &flakyRepo{PageRepository: f.repo, failVersionsFor: broken.ID}
	lifecycle := pages.NewService(repo, pages.WithClock(func() time.Time { return f.now }))

	result, err := New(repo, lifecycle).Run(ctx, f.now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].PageID != broken.ID {
		t.Fatalf("expected isolated failure for broken page, got %+v", result.Errors)
	}
	if len(result.Published) != 1 || result.Published[0] != healthy.ID {
		t.Fatalf("expected healthy page to publish, got %+v", result.Published)
	}
}

type recordingPurger struct {
	calls []string
}

func (p *recordingPurger) Purge(_ context.Context, workspaceID uuid.UUID, locale, slug string) error {
	p.calls = append(p.calls, locale+":"+slug)
	return nil
}

func TestSweepPurgesCacheAfterTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	due := f.now.Add(-time.Second)
	page := f.seedPage(t, func(p *pages.Page) {
		p.Status = "scheduled"
		p.ScheduledPublishAt = &due
	})

	purger := &recordingPurger{}
	sweeper := New(f.repo, f.lifecycle, WithPurger(purger, "en", "fr"))
	if _, err := sweeper.Run(ctx, f.now); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"en:" + page.Slug, "fr:" + page.Slug}
	if len(purger.calls) != len(want) {
		t.Fatalf("expected purges %v, got %v", want, purger.calls)
	}
	for i := range want {
		if purger.calls[i] != want[i] {
			t.Fatalf("expected purges %v, got %v", want, purger.calls)
		}
	}
}
