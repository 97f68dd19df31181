package pagebuilder_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	pagebuilder "github.com/goliatone/go-pagebuilder"
	"github.com/goliatone/go-pagebuilder/internal/di"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/google/uuid"
)

func newModule(t *testing.T) *pagebuilder.Module {
	t.Helper()
	cfg := pagebuilder.DefaultConfig()
	cfg.Site.BaseURL = "https://example.com"
	cfg.Site.Locales = []string{"en"}

	module, err := pagebuilder.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return module
}

func landingDoc() map[string]any {
	return map[string]any{
		"ROOT": map[string]any{
			"type":  map[string]any{"resolvedName": "PageCanvas"},
			"props": map[string]any{},
			"nodes": []any{"hero", "menu", "footer"},
		},
		"hero": map[string]any{
			"type":  map[string]any{"resolvedName": "HeadingBlock"},
			"props": map[string]any{"text": "Welcome to Demo Bistro", "level": 1},
		},
		"menu": map[string]any{
			"type": map[string]any{"resolvedName": "RepeatableListBlock"},
			"props": map[string]any{
				"tableId":  "menu-items",
				"template": "{{name}}",
			},
		},
		"footer": map[string]any{
			"type":  map[string]any{"resolvedName": "GlobalSectionBlock"},
			"props": map[string]any{"sectionKey": "footer"},
		},
	}
}

func footerDoc() map[string]any {
	return map[string]any{
		"ROOT": map[string]any{
			"type":  map[string]any{"resolvedName": "PageCanvas"},
			"props": map[string]any{},
			"nodes": []any{"note"},
		},
		"note": map[string]any{
			"type":  map[string]any{"resolvedName": "ParagraphBlock"},
			"props": map[string]any{"text": "All rights reserved"},
		},
	}
}

func TestModuleRendersPublishedPageEndToEnd(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)
	workspaceID := uuid.New()

	section, err := module.Sections().Upsert(ctx, sections.UpsertRequest{
		WorkspaceID:  workspaceID,
		Key:          "footer",
		Name:         "Footer",
		DraftContent: footerDoc(),
	})
	if err != nil {
		t.Fatalf("section upsert: %v", err)
	}
	if _, err := module.Sections().Publish(ctx, section.ID); err != nil {
		t.Fatalf("section publish: %v", err)
	}

	page, err := module.Pages().UpsertDraft(ctx, pages.UpsertDraftRequest{
		WorkspaceID:  workspaceID,
		Slug:         "/home",
		DraftContent: pages.Assign(landingDoc()),
	})
	if err != nil {
		t.Fatalf("page upsert: %v", err)
	}
	if _, err := module.Pages().Publish(ctx, pages.PublishRequest{PageID: page.ID, CreatedBy: "editor"}); err != nil {
		t.Fatalf("page publish: %v", err)
	}

	result, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/home"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(result.HTML, "Welcome to Demo Bistro") {
		t.Fatalf("expected heading in output, got %s", result.HTML)
	}
	if !strings.Contains(result.HTML, "Row 1") {
		t.Fatalf("expected demo table rows in output, got %s", result.HTML)
	}
	if !strings.Contains(result.HTML, "All rights reserved") {
		t.Fatalf("expected section content in output, got %s", result.HTML)
	}
	if len(result.Diagnostics.RenderedSections) != 1 || result.Diagnostics.RenderedSections[0] != "footer" {
		t.Fatalf("expected footer in rendered sections, got %v", result.Diagnostics.RenderedSections)
	}
	if result.Metadata.CanonicalURL != "https://example.com/home" {
		t.Fatalf("unexpected canonical url %q", result.Metadata.CanonicalURL)
	}

	cached, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/home"})
	if err != nil {
		t.Fatalf("render from cache: %v", err)
	}
	if !cached.FromCache {
		t.Fatal("expected second render to hit the cache")
	}
	if cached.HTML != result.HTML {
		t.Fatal("expected cached HTML to match the original render")
	}

	if err := module.PurgeRenderCache(ctx, workspaceID, "en", "/home"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	fresh, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/home"})
	if err != nil {
		t.Fatalf("render after purge: %v", err)
	}
	if fresh.FromCache {
		t.Fatal("expected purge to force a fresh render")
	}
}

func TestModuleSweepPromotesScheduledPage(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)
	workspaceID := uuid.New()

	scheduled := "scheduled"
	past := time.Now().Add(-time.Minute).UTC()
	page, err := module.Pages().UpsertDraft(ctx, pages.UpsertDraftRequest{
		WorkspaceID:        workspaceID,
		Slug:               "/launch",
		DraftContent:       pages.Assign(landingDoc()),
		Status:             &scheduled,
		ScheduledPublishAt: pages.Assign(past),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/launch"}); !errors.Is(err, pagebuilder.ErrPageNotFound) {
		t.Fatalf("expected not found before promotion, got %v", err)
	}

	result, err := module.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(result.Published) != 1 || result.Published[0] != page.ID {
		t.Fatalf("expected page to be promoted, got %+v", result)
	}

	rendered, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/launch"})
	if err != nil {
		t.Fatalf("render after sweep: %v", err)
	}
	if !strings.Contains(rendered.HTML, "Welcome to Demo Bistro") {
		t.Fatalf("expected promoted page output, got %s", rendered.HTML)
	}
}

func TestModuleDraftRenderBypassesCache(t *testing.T) {
	ctx := context.Background()
	module := newModule(t)
	workspaceID := uuid.New()

	if _, err := module.Pages().UpsertDraft(ctx, pages.UpsertDraftRequest{
		WorkspaceID:  workspaceID,
		Slug:         "/wip",
		DraftContent: pages.Assign(landingDoc()),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	draft, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/wip", Draft: true})
	if err != nil {
		t.Fatalf("draft render: %v", err)
	}
	if draft.FromCache {
		t.Fatal("draft renders must not come from the cache")
	}

	if _, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/wip"}); !errors.Is(err, pagebuilder.ErrPageNotFound) {
		t.Fatalf("expected unpublished page to stay hidden, got %v", err)
	}
}

func TestModuleRejectsBunProviderWithoutDB(t *testing.T) {
	cfg := pagebuilder.DefaultConfig()
	cfg.Storage.Provider = "bun"

	if _, err := pagebuilder.New(cfg); !errors.Is(err, di.ErrBunDBRequired) {
		t.Fatalf("expected ErrBunDBRequired, got %v", err)
	}
}
