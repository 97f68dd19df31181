package pagescmd

import (
	"context"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/commands"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/sweep"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

const runSweepMessageType = "pagebuilder.pages.run_sweep"

// RunSweepCommand triggers one scheduled-transition pass. A zero Now means
// "the current time", resolved at execution.
type RunSweepCommand struct {
	Now time.Time `json:"now,omitempty"`
}

// Type implements command.Message.
func (RunSweepCommand) Type() string { return runSweepMessageType }

// Validate implements command.Message; the sweep takes no required input.
func (RunSweepCommand) Validate() error { return nil }

// RunSweepHandler executes the sweeper and logs the outcome.
type RunSweepHandler struct {
	inner *commands.Handler[RunSweepCommand]
}

// NewRunSweepHandler constructs a handler wired to the sweeper.
func NewRunSweepHandler(sweeper *sweep.Sweeper, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RunSweepCommand]) *RunSweepHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RunSweepCommand) error {
		if !gates.schedulingEnabled() {
			return pages.ErrSchedulingDisabled
		}
		now := msg.Now
		if now.IsZero() {
			now = time.Now()
		}
		result, err := sweeper.Run(ctx, now)
		if err != nil {
			return err
		}
		baseLogger.Info("sweep executed",
			"published", len(result.Published),
			"unpublished", len(result.Unpublished),
			"errors", len(result.Errors))
		return nil
	}

	handlerOpts := []commands.HandlerOption[RunSweepCommand]{
		commands.WithLogger[RunSweepCommand](baseLogger),
		commands.WithOperation[RunSweepCommand]("pages.run_sweep"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RunSweepHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RunSweepCommand].
func (h *RunSweepHandler) Execute(ctx context.Context, msg RunSweepCommand) error {
	return h.inner.Execute(ctx, msg)
}
