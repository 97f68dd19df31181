package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	pagebuilder "github.com/goliatone/go-pagebuilder"
	"github.com/goliatone/go-pagebuilder/internal/identity"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/sections"
)

func main() {
	ctx := context.Background()

	cfg := pagebuilder.DefaultConfig()
	cfg.Site.BaseURL = "https://demo.local"
	cfg.Features.Logger = true

	module, err := pagebuilder.New(cfg)
	if err != nil {
		log.Fatalf("pagebuilder: %v", err)
	}

	// Stable workspace id so repeated runs address the same records.
	workspaceID := identity.WorkspaceUUID("demo-bistro")

	footer, err := module.Sections().Upsert(ctx, sections.UpsertRequest{
		WorkspaceID: workspaceID,
		Key:         "footer",
		Name:        "Footer",
		DraftContent: map[string]any{
			"ROOT": map[string]any{
				"type":  map[string]any{"resolvedName": "PageCanvas"},
				"nodes": []any{"note"},
			},
			"note": map[string]any{
				"type":  map[string]any{"resolvedName": "ParagraphBlock"},
				"props": map[string]any{"text": "Demo Bistro, Est. 2026"},
			},
		},
	})
	if err != nil {
		log.Fatalf("section upsert: %v", err)
	}
	if _, err := module.Sections().Publish(ctx, footer.ID); err != nil {
		log.Fatalf("section publish: %v", err)
	}

	page, err := module.Pages().UpsertDraft(ctx, pages.UpsertDraftRequest{
		WorkspaceID: workspaceID,
		Slug:        "/home",
		DraftContent: pages.Assign(map[string]any{
			"ROOT": map[string]any{
				"type":  map[string]any{"resolvedName": "PageCanvas"},
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
					"template": "{{name}} - {{description}}",
				},
			},
			"footer": map[string]any{
				"type":  map[string]any{"resolvedName": "GlobalSectionBlock"},
				"props": map[string]any{"sectionKey": "footer"},
			},
		}),
	})
	if err != nil {
		log.Fatalf("page upsert: %v", err)
	}
	if _, err := module.Pages().Publish(ctx, pages.PublishRequest{PageID: page.ID, CreatedBy: "example"}); err != nil {
		log.Fatalf("page publish: %v", err)
	}

	result, err := module.Render(ctx, pagebuilder.RenderRequest{WorkspaceID: workspaceID, Slug: "/home"})
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	fmt.Println(result.HTML)

	diagnostics, _ := json.MarshalIndent(result.Diagnostics, "", "  ")
	fmt.Printf("\ndiagnostics: %s\n", diagnostics)
	fmt.Printf("canonical: %s\n", result.Metadata.CanonicalURL)

	if sweepResult, err := module.Sweep(ctx); err == nil {
		fmt.Printf("sweep at %s: %d published, %d unpublished\n",
			time.Now().Format(time.RFC3339), len(sweepResult.Published), len(sweepResult.Unpublished))
	}
}
