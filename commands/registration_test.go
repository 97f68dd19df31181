package commands

import (
	"testing"

	"github.com/goliatone/go-pagebuilder/internal/di"
	"github.com/goliatone/go-pagebuilder/internal/runtimeconfig"
)

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingSubscription struct{ cancelled bool }

func (s *recordingSubscription) Unsubscribe() { s.cancelled = true }

type recordingDispatcher struct {
	subscriptions []*recordingSubscription
}

func (d *recordingDispatcher) RegisterCommand(any) (CommandSubscription, error) {
	sub := &recordingSubscription{}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

func TestRegisterContainerCommandsRegistersAllHandlers(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:   registry,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("RegisterContainerCommands returned error: %v", err)
	}

	// upsert, publish, rollback, schedule, sweep
	if len(result.Handlers) != 5 {
		t.Fatalf("expected 5 handlers, got %d", len(result.Handlers))
	}
	if len(registry.handlers) != 5 {
		t.Fatalf("expected registry to record 5 handlers, got %d", len(registry.handlers))
	}
	if len(result.Subscriptions) != 5 {
		t.Fatalf("expected 5 dispatcher subscriptions, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsHonoursFeatureFlags(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Versioning = true
	cfg.Features.Scheduling = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("RegisterContainerCommands returned error: %v", err)
	}

	// upsert, publish, rollback; schedule and sweep stay behind the flag
	if len(result.Handlers) != 3 {
		t.Fatalf("expected 3 handlers, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsWithNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers, got %d", len(result.Handlers))
	}
}
