package pagebuilder

import (
	"context"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/di"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/render"
	"github.com/goliatone/go-pagebuilder/internal/resolver"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/internal/sweep"
	"github.com/google/uuid"
)

// PageService exports the page lifecycle contract.
type PageService = pages.Service

// SectionService exports the global section contract.
type SectionService = sections.Service

// RenderService exports the cache-aware render pipeline contract.
type RenderService = render.Service

// RenderRequest identifies the page variant to render.
type RenderRequest = render.Request

// RenderResult carries rendered HTML, metadata, and diagnostics.
type RenderResult = render.Result

// SweepResult reports the pages transitioned by one sweep pass.
type SweepResult = sweep.Result

// ErrPageNotFound is returned by Render when the page is missing or not visible.
var ErrPageNotFound = render.ErrNotFound

// Module is the top level pagebuilder runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a pagebuilder module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the configured page lifecycle service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Sections returns the configured global section service.
func (m *Module) Sections() SectionService {
	return m.container.SectionService()
}

// Renderer returns the configured render pipeline.
func (m *Module) Renderer() RenderService {
	return m.container.RenderService()
}

// Resolver returns the reference resolver.
func (m *Module) Resolver() *resolver.Resolver {
	return m.container.Resolver()
}

// Sweeper returns the scheduled transition sweeper.
func (m *Module) Sweeper() *sweep.Sweeper {
	return m.container.Sweeper()
}

// Render resolves and renders a page variant through the configured pipeline.
func (m *Module) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	return m.container.RenderService().Render(ctx, req)
}

// Sweep runs one scheduled transition pass at the current time.
func (m *Module) Sweep(ctx context.Context) (*SweepResult, error) {
	return m.container.Sweeper().Run(ctx, time.Now())
}

// PurgeRenderCache drops cached renders for the page, both draft variants.
func (m *Module) PurgeRenderCache(ctx context.Context, workspaceID uuid.UUID, locale, slug string) error {
	return m.container.RenderService().Purge(ctx, workspaceID, locale, slug)
}
