package sections

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/google/uuid"
)

var testWorkspace = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func sectionDoc(text string) map[string]any {
	return map[string]any{
		"ROOT": map[string]any{
			"type":  map[string]any{"resolvedName": "PageCanvas"},
			"props": map[string]any{"text": text},
		},
	}
}

func TestUpsertCreatesDraftSection(t *testing.T) {
	svc := NewService(NewMemorySectionRepository())

	section, err := svc.Upsert(context.Background(), UpsertRequest{
		WorkspaceID:  testWorkspace,
		Key:          "footer",
		DraftContent: sectionDoc("v1"),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if section.Status != string(domain.StatusDraft) {
		t.Fatalf("expected draft status, got %q", section.Status)
	}
	if section.Name != "footer" {
		t.Fatalf("expected name defaulted from key, got %q", section.Name)
	}
	if section.PublishedContent != nil {
		t.Fatal("new section must not have published content")
	}
}

func TestUpsertIsDeterministicPerWorkspaceKey(t *testing.T) {
	svc := NewService(NewMemorySectionRepository())

	first, err := svc.Upsert(context.Background(), UpsertRequest{WorkspaceID: testWorkspace, Key: "footer"})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	second, err := svc.Upsert(context.Background(), UpsertRequest{WorkspaceID: testWorkspace, Key: "footer", Name: "Site Footer"})
	if err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected stable id across upserts, got %s then %s", first.ID, second.ID)
	}
	if second.Name != "Site Footer" {
		t.Fatalf("expected name updated, got %q", second.Name)
	}
}

func TestPublishPromotesDraftContent(t *testing.T) {
	svc := NewService(NewMemorySectionRepository())

	section, err := svc.Upsert(context.Background(), UpsertRequest{
		WorkspaceID:  testWorkspace,
		Key:          "footer",
		DraftContent: sectionDoc("v1"),
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	published, err := svc.Publish(context.Background(), section.ID)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if published.Status != string(domain.StatusPublished) {
		t.Fatalf("expected published status, got %q", published.Status)
	}
	if published.PublishedContent == nil {
		t.Fatal("expected published content set from draft")
	}
	text := published.PublishedContent["ROOT"].(map[string]any)["props"].(map[string]any)["text"]
	if text != "v1" {
		t.Fatalf("unexpected published content: %v", text)
	}
}

func TestContentPrefersPublished(t *testing.T) {
	section := &GlobalSection{
		DraftContent:     sectionDoc("draft"),
		PublishedContent: sectionDoc("published"),
	}
	text := section.Content()["ROOT"].(map[string]any)["props"].(map[string]any)["text"]
	if text != "published" {
		t.Fatalf("expected published content preferred, got %v", text)
	}

	unpublished := &GlobalSection{DraftContent: sectionDoc("draft")}
	text = unpublished.Content()["ROOT"].(map[string]any)["props"].(map[string]any)["text"]
	if text != "draft" {
		t.Fatalf("expected draft fallback for never-published section, got %v", text)
	}
}

func TestGetMissingSection(t *testing.T) {
	svc := NewService(NewMemorySectionRepository())

	_, err := svc.Get(context.Background(), testWorkspace, "missing")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestUpsertRejectsEmptyKey(t *testing.T) {
	svc := NewService(NewMemorySectionRepository())

	if _, err := svc.Upsert(context.Background(), UpsertRequest{WorkspaceID: testWorkspace}); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}
