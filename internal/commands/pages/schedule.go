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

const schedulePageMessageType = "pagebuilder.pages.schedule"

// SchedulePageCommand updates the publish/unpublish window for a page.
// Providing a publish time also flips the page to scheduled; timestamps use
// the same date-like wire format as UpsertDraftCommand.
type SchedulePageCommand struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Slug        string    `json:"slug"`
	PublishAt   string    `json:"publish_at,omitempty"`
	UnpublishAt string    `json:"unpublish_at,omitempty"`
}

// Type implements command.Message.
func (SchedulePageCommand) Type() string { return schedulePageMessageType }

// Validate ensures the message carries the required fields.
func (m SchedulePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.WorkspaceID == uuid.Nil {
		errs["workspace_id"] = validation.NewError("pagebuilder.pages.schedule.workspace_required", "workspace_id is required")
	}
	if strings.TrimSpace(m.Slug) == "" {
		errs["slug"] = validation.NewError("pagebuilder.pages.schedule.slug_required", "slug is required")
	}
	if strings.TrimSpace(m.PublishAt) == "" && strings.TrimSpace(m.UnpublishAt) == "" {
		errs["publish_at"] = validation.NewError("pagebuilder.pages.schedule.window_required", "publish_at or unpublish_at is required")
	}
	if _, err := parseTimestamp(m.PublishAt); err != nil {
		errs["publish_at"] = validation.NewError("pagebuilder.pages.schedule.publish_at_invalid", "publish_at must be a valid timestamp or null")
	}
	if _, err := parseTimestamp(m.UnpublishAt); err != nil {
		errs["unpublish_at"] = validation.NewError("pagebuilder.pages.schedule.unpublish_at_invalid", "unpublish_at must be a valid timestamp or null")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SchedulePageHandler coordinates scheduling changes via the page service.
type SchedulePageHandler struct {
	inner *commands.Handler[SchedulePageCommand]
}

// NewSchedulePageHandler constructs a handler wired to the page service.
func NewSchedulePageHandler(service pages.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SchedulePageCommand]) *SchedulePageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SchedulePageCommand) error {
		if !gates.schedulingEnabled() {
			return pages.ErrSchedulingDisabled
		}

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
			ScheduledPublishAt:   publishAt,
			ScheduledUnpublishAt: unpublishAt,
		}
		if publishAt.Valid && publishAt.Value != nil {
			scheduled := domain.StatusScheduled.String()
			req.Status = &scheduled
		}
		_, err = service.UpsertDraft(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[SchedulePageCommand]{
		commands.WithLogger[SchedulePageCommand](baseLogger),
		commands.WithOperation[SchedulePageCommand]("pages.schedule"),
		commands.WithMessageFields(func(msg SchedulePageCommand) map[string]any {
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

	return &SchedulePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SchedulePageCommand].
func (h *SchedulePageHandler) Execute(ctx context.Context, msg SchedulePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
