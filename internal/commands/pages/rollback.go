package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagebuilder/internal/commands"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

const rollbackPageMessageType = "pagebuilder.pages.rollback"

// RollbackPageCommand restores the snapshot of an earlier version by
// appending a new version; history is never rewritten.
type RollbackPageCommand struct {
	PageID    uuid.UUID `json:"page_id"`
	Version   int       `json:"version"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// Type implements command.Message.
func (RollbackPageCommand) Type() string { return rollbackPageMessageType }

// Validate ensures the command identifies a page and a target version.
func (m RollbackPageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("pagebuilder.pages.rollback.page_id_required", "page_id is required")
	}
	if m.Version <= 0 {
		errs["version"] = validation.NewError("pagebuilder.pages.rollback.version_invalid", "version must be greater than zero")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RollbackPageHandler restores versions via the lifecycle service.
type RollbackPageHandler struct {
	inner *commands.Handler[RollbackPageCommand]
}

// NewRollbackPageHandler constructs a handler wired to the page service.
func NewRollbackPageHandler(service pages.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RollbackPageCommand]) *RollbackPageHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RollbackPageCommand) error {
		if !gates.versioningEnabled() {
			return pages.ErrVersioningDisabled
		}
		_, err := service.Rollback(ctx, pages.RollbackRequest{
			PageID:    msg.PageID,
			Version:   msg.Version,
			CreatedBy: msg.CreatedBy,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[RollbackPageCommand]{
		commands.WithLogger[RollbackPageCommand](baseLogger),
		commands.WithOperation[RollbackPageCommand]("pages.rollback"),
		commands.WithMessageFields(func(msg RollbackPageCommand) map[string]any {
			fields := map[string]any{}
			if msg.PageID != uuid.Nil {
				fields["page_id"] = msg.PageID
			}
			if msg.Version > 0 {
				fields["version"] = msg.Version
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RollbackPageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RollbackPageCommand].
func (h *RollbackPageHandler) Execute(ctx context.Context, msg RollbackPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
