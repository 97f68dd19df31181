package sections_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newSectionStorage(t *testing.T) *bun.DB {
	t.Helper()

	bunDB, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	ctx := context.Background()
	if _, err := bunDB.NewCreateTable().Model((*sections.GlobalSection)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := bunDB.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_global_sections_workspace_key_unique ON global_sections(workspace_id, key)"); err != nil {
		t.Fatalf("create index idx_global_sections_workspace_key_unique: %v", err)
	}
	return bunDB
}

func TestSectionService_WithBunStorage(t *testing.T) {
	ctx := context.Background()
	bunDB := newSectionStorage(t)

	repo := sections.NewBunSectionRepository(bunDB)
	svc := sections.NewService(repo)
	workspaceID := uuid.New()

	draft := map[string]any{
		"ROOT": map[string]any{
			"type":  map[string]any{"resolvedName": "PageCanvas"},
			"nodes": []any{"note"},
		},
		"note": map[string]any{
			"type":  map[string]any{"resolvedName": "ParagraphBlock"},
			"props": map[string]any{"text": "All rights reserved"},
		},
	}

	created, err := svc.Upsert(ctx, sections.UpsertRequest{
		WorkspaceID:  workspaceID,
		Key:          "footer",
		Name:         "Footer",
		DraftContent: draft,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.PublishedContent != nil {
		t.Fatal("expected unpublished section after draft upsert")
	}

	published, err := svc.Publish(ctx, created.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedContent == nil {
		t.Fatal("expected publish to copy the draft content")
	}

	fetched, err := svc.Get(ctx, workspaceID, "footer")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Content() == nil {
		t.Fatal("expected renderable content from published section")
	}

	listed, err := svc.List(ctx, workspaceID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one section, got %d", len(listed))
	}

	if _, err := svc.Get(ctx, workspaceID, "missing"); !errors.Is(err, sections.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}
