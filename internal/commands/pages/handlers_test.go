package pagescmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/sweep"
	"github.com/google/uuid"
)

func newPageService(t *testing.T) (pages.Service, *pages.MemoryPageRepository) {
	t.Helper()
	repo := pages.NewMemoryPageRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return pages.NewService(repo, pages.WithClock(func() time.Time { return now })), repo
}

func seedDraft(t *testing.T, svc pages.Service, workspaceID uuid.UUID, slug string) *pages.Page {
	t.Helper()
	page, err := svc.UpsertDraft(context.Background(), pages.UpsertDraftRequest{
		WorkspaceID: workspaceID,
		Slug:        slug,
		DraftContent: pages.Assign(map[string]any{
			"ROOT": map[string]any{"type": map[string]any{"resolvedName": "PageCanvas"}},
		}),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return page
}

func TestUpsertDraftCommandCreatesPage(t *testing.T) {
	svc, _ := newPageService(t)
	workspaceID := uuid.New()
	handler := NewUpsertDraftHandler(svc, nil)

	err := handler.Execute(context.Background(), UpsertDraftCommand{
		WorkspaceID: workspaceID,
		Slug:        "/about-us",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	page, err := svc.GetBySlug(context.Background(), workspaceID, "/about-us")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if page.Title != "about us" {
		t.Fatalf("expected derived title, got %q", page.Title)
	}
}

func TestUpsertDraftCommandRejectsBadTimestamp(t *testing.T) {
	svc, _ := newPageService(t)
	handler := NewUpsertDraftHandler(svc, nil)

	err := handler.Execute(context.Background(), UpsertDraftCommand{
		WorkspaceID: uuid.New(),
		Slug:        "/bad",
		PublishAt:   "not a date",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestPublishCommandPromotesPage(t *testing.T) {
	svc, repo := newPageService(t)
	workspaceID := uuid.New()
	page := seedDraft(t, svc, workspaceID, "/menu")

	handler := NewPublishPageHandler(svc, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), PublishPageCommand{PageID: page.ID, CreatedBy: "editor"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	updated, err := repo.GetByID(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Status != "published" {
		t.Fatalf("expected published, got %s", updated.Status)
	}
	versions, _ := repo.ListVersions(context.Background(), page.ID)
	if len(versions) != 1 || versions[0].CreatedBy != "editor" {
		t.Fatalf("expected one attributed version, got %+v", versions)
	}
}

func TestPublishCommandHonoursVersioningGate(t *testing.T) {
	svc, _ := newPageService(t)
	page := seedDraft(t, svc, uuid.New(), "/gated")

	gates := FeatureGates{VersioningEnabled: func() bool { return false }}
	handler := NewPublishPageHandler(svc, nil, gates)

	err := handler.Execute(context.Background(), PublishPageCommand{PageID: page.ID})
	if err == nil {
		t.Fatal("expected gate error")
	}
	if !errors.Is(err, pages.ErrVersioningDisabled) {
		t.Fatalf("expected ErrVersioningDisabled, got %v", err)
	}
}

func TestPublishCommandRequiresPageID(t *testing.T) {
	svc, _ := newPageService(t)
	handler := NewPublishPageHandler(svc, nil, FeatureGates{})

	err := handler.Execute(context.Background(), PublishPageCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRollbackCommandRestoresVersion(t *testing.T) {
	svc, repo := newPageService(t)
	workspaceID := uuid.New()
	page := seedDraft(t, svc, workspaceID, "/history")

	if _, err := svc.Publish(context.Background(), pages.PublishRequest{PageID: page.ID}); err != nil {
		t.Fatalf("publish v1: %v", err)
	}
	if _, err := svc.UpsertDraft(context.Background(), pages.UpsertDraftRequest{
		WorkspaceID: workspaceID,
		Slug:        page.Slug,
		DraftContent: pages.Assign(map[string]any{
			"ROOT": map[string]any{"type": map[string]any{"resolvedName": "PageCanvas"}, "props": map[string]any{"gap": 40}},
		}),
	}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := svc.Publish(context.Background(), pages.PublishRequest{PageID: page.ID}); err != nil {
		t.Fatalf("publish v2: %v", err)
	}

	handler := NewRollbackPageHandler(svc, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), RollbackPageCommand{PageID: page.ID, Version: 1}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	versions, _ := repo.ListVersions(context.Background(), page.ID)
	if len(versions) != 3 {
		t.Fatalf("expected rollback to append a third version, got %d", len(versions))
	}
}

func TestScheduleCommandSetsWindow(t *testing.T) {
	svc, _ := newPageService(t)
	workspaceID := uuid.New()
	seedDraft(t, svc, workspaceID, "/launch")

	handler := NewSchedulePageHandler(svc, nil, FeatureGates{})
	err := handler.Execute(context.Background(), SchedulePageCommand{
		WorkspaceID: workspaceID,
		Slug:        "/launch",
		PublishAt:   "2025-07-01T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	page, err := svc.GetBySlug(context.Background(), workspaceID, "/launch")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if page.Status != "scheduled" {
		t.Fatalf("expected scheduled, got %s", page.Status)
	}
	if page.ScheduledPublishAt == nil || !page.ScheduledPublishAt.Equal(time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected publish time, got %v", page.ScheduledPublishAt)
	}
}

func TestScheduleCommandClearsWindowWithNull(t *testing.T) {
	svc, _ := newPageService(t)
	workspaceID := uuid.New()
	seedDraft(t, svc, workspaceID, "/launch")

	handler := NewSchedulePageHandler(svc, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), SchedulePageCommand{
		WorkspaceID: workspaceID,
		Slug:        "/launch",
		PublishAt:   "2025-07-01T09:00:00Z",
	}); err != nil {
		t.Fatalf("set window: %v", err)
	}
	if err := handler.Execute(context.Background(), SchedulePageCommand{
		WorkspaceID: workspaceID,
		Slug:        "/launch",
		PublishAt:   "null",
	}); err != nil {
		t.Fatalf("clear window: %v", err)
	}

	page, _ := svc.GetBySlug(context.Background(), workspaceID, "/launch")
	if page.ScheduledPublishAt != nil {
		t.Fatalf("expected cleared publish time, got %v", page.ScheduledPublishAt)
	}
}

func TestScheduleCommandHonoursSchedulingGate(t *testing.T) {
	svc, _ := newPageService(t)
	gates := FeatureGates{SchedulingEnabled: func() bool { return false }}
	handler := NewSchedulePageHandler(svc, nil, gates)

	err := handler.Execute(context.Background(), SchedulePageCommand{
		WorkspaceID: uuid.New(),
		Slug:        "/gated",
		PublishAt:   "2025-07-01T09:00:00Z",
	})
	if !errors.Is(err, pages.ErrSchedulingDisabled) {
		t.Fatalf("expected ErrSchedulingDisabled, got %v", err)
	}
}

func TestRunSweepCommandPromotesDuePages(t *testing.T) {
	svc, repo := newPageService(t)
	workspaceID := uuid.New()
	page := seedDraft(t, svc, workspaceID, "/timed")

	due := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	scheduled := "scheduled"
	if _, err := svc.UpsertDraft(context.Background(), pages.UpsertDraftRequest{
		WorkspaceID:        workspaceID,
		Slug:               page.Slug,
		Status:             &scheduled,
		ScheduledPublishAt: pages.Assign(due),
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	sweeper := sweep.New(repo, svc)
	handler := NewRunSweepHandler(sweeper, nil, FeatureGates{})
	if err := handler.Execute(context.Background(), RunSweepCommand{Now: due.Add(time.Hour)}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	updated, _ := repo.GetByID(context.Background(), page.ID)
	if updated.Status != "published" {
		t.Fatalf("expected published, got %s", updated.Status)
	}
}

func TestRunSweepCommandHonoursSchedulingGate(t *testing.T) {
	svc, repo := newPageService(t)
	sweeper := sweep.New(repo, svc)
	gates := FeatureGates{SchedulingEnabled: func() bool { return false }}
	handler := NewRunSweepHandler(sweeper, nil, gates)

	err := handler.Execute(context.Background(), RunSweepCommand{})
	if !errors.Is(err, pages.ErrSchedulingDisabled) {
		t.Fatalf("expected ErrSchedulingDisabled, got %v", err)
	}
}

func TestParseTimestampTriState(t *testing.T) {
	unset, err := parseTimestamp("")
	if err != nil || unset.Valid {
		t.Fatalf("expected unset, got %+v err %v", unset, err)
	}
	cleared, err := parseTimestamp("NULL")
	if err != nil || !cleared.Valid || cleared.Value != nil {
		t.Fatalf("expected cleared, got %+v err %v", cleared, err)
	}
	assigned, err := parseTimestamp("2025-07-01")
	if err != nil || !assigned.Valid || assigned.Value == nil {
		t.Fatalf("expected assigned, got %+v err %v", assigned, err)
	}
	if _, err := parseTimestamp("yesterday-ish"); err == nil {
		t.Fatal("expected parse error")
	}
}
