package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagebuilder/internal/commands"
	"github.com/goliatone/go-pagebuilder/internal/domain"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

const upsertDraftMessageType = "pagebuilder.pages.upsert_draft"

// UpsertDraftCommand creates or updates a page draft. Schedule timestamps
// travel as date-like strings: empty leaves the field unchanged, "null"
// clears it.
type UpsertDraftCommand struct {
	WorkspaceID  uuid.UUID      `json:"workspace_id"`
	Slug         string         `json:"slug"`
	Title        *string        `json:"title,omitempty"`
	DraftContent map[string]any `json:"draft_content,omitempty"`
	Status       *string        `json:"status,omitempty"`
	PublishAt    string         `json:"publish_at,omitempty"`
	UnpublishAt  string         `json:"unpublish_at,omitempty"`
}

// Type implements command.Message.
func (UpsertDraftCommand) Type() string { return upsertDraftMessageType }

// Validate ensures the message is well formed before reaching handlers.
func (m UpsertDraftCommand) Validate() error {
	errs := validation.Errors{}
	if m.WorkspaceID == uuid.Nil {
		errs["workspace_id"] = validation.NewError("pagebuilder.pages.upsert.workspace_required", "workspace_id is required")
	}
	if strings.TrimSpace(m.Slug) == "" {
		errs["slug"] = validation.NewError("pagebuilder.pages.upsert.slug_required", "slug is required")
	}
	if m.Status != nil {
		if _, err := domain.ParseStatus(*m.Status); err != nil {
			errs["status"] = validation.NewError("pagebuilder.pages.upsert.status_invalid", "status must be draft, scheduled, or published")
		}
	}
	if _, err := parseTimestamp(m.PublishAt); err != nil {
		errs["publish_at"] = validation.NewError("pagebuilder.pages.upsert.publish_at_invalid", "publish_at must be a valid timestamp or null")
	}
	if _, err := parseTimestamp(m.UnpublishAt); err != nil {
		errs["unpublish_at"] = validation.NewError("pagebuilder.pages.upsert.unpublish_at_invalid", "unpublish_at must be a valid timestamp or null")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertDraftHandler saves drafts via the page service using the shared
// command handler foundation.
type UpsertDraftHandler struct {
	inner *commands.Handler[UpsertDraftCommand]
}

// NewUpsertDraftHandler constructs a handler wired to the page service.
func NewUpsertDraftHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertDraftCommand]) *UpsertDraftHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg UpsertDraftCommand) error {
		publishAt, err := parseTimestamp(msg.PublishAt)
		if err != nil {
			return err
		}
		unpublishAt, err := parseTimestamp(msg.UnpublishAt)
		if err != nil {
			return err
		}

		req := pages.UpsertDraftRequest{
			WorkspaceID:          msg.WorkspaceID,
			Slug:                 msg.Slug,
			Title:                msg.Title,
			Status:               msg.Status,
			ScheduledPublishAt:   publishAt,
			ScheduledUnpublishAt: unpublishAt,
		}
		if msg.DraftContent != nil {
			req.DraftContent = pages.Assign(msg.DraftContent)
		}
		_, err = service.UpsertDraft(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[UpsertDraftCommand]{
		commands.WithLogger[UpsertDraftCommand](baseLogger),
		commands.WithOperation[UpsertDraftCommand]("pages.upsert_draft"),
		commands.WithMessageFields(func(msg UpsertDraftCommand) map[string]any {
			fields := map[string]any{}
			if msg.WorkspaceID != uuid.Nil {
				fields["workspace_id"] = msg.WorkspaceID
			}
			if trimmed := strings.TrimSpace(msg.Slug); trimmed != "" {
				fields["slug"] = trimmed
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpsertDraftHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UpsertDraftCommand].
func (h *UpsertDraftHandler) Execute(ctx context.Context, msg UpsertDraftCommand) error {
	return h.inner.Execute(ctx, msg)
}
