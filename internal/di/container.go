package di

import (
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/logging/gologger"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/render"
	"github.com/goliatone/go-pagebuilder/internal/rendercache"
	"github.com/goliatone/go-pagebuilder/internal/resolver"
	"github.com/goliatone/go-pagebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/internal/sweep"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// ErrBunDBRequired is returned when the configuration selects the bun storage
// provider but no database handle was supplied.
var ErrBunDBRequired = errors.New("pagebuilder di: storage provider bun requires a *bun.DB (use WithBunDB)")

// Container wires module dependencies. Defaults are memory-backed so the
// module works without external infrastructure; options swap in bun storage,
// real cache services, media providers, and logger providers.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	cacheProvider  interfaces.CacheProvider
	media          interfaces.MediaProvider
	theme          render.Theme
	clock          func() time.Time

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	pageRepo    pages.PageRepository
	sectionRepo sections.SectionRepository

	pageSvc    pages.Service
	sectionSvc sections.Service

	resolver    *resolver.Resolver
	renderer    *render.Renderer
	renderStore *rendercache.Store
	renderSvc   render.Service
	sweeper     *sweep.Sweeper
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the bun storage backend for pages and sections.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithPostgresDB wraps a raw postgres connection in a bun handle and binds it
// as the storage backend. Hosts that already manage a *bun.DB should use
// WithBunDB instead.
func WithPostgresDB(sqlDB *sql.DB) Option {
	return func(c *Container) {
		c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
	}
}

// WithCache overrides the repository cache service used by bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the render and section cache backend.
func WithCacheProvider(cache interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cacheProvider = cache
	}
}

// WithLoggerProvider overrides the logger provider selected from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMediaProvider overrides the default no-op media provider.
func WithMediaProvider(provider interfaces.MediaProvider) Option {
	return func(c *Container) {
		c.media = provider
	}
}

// WithTheme overrides the default render theme tokens.
func WithTheme(theme render.Theme) Option {
	return func(c *Container) {
		c.theme = theme
	}
}

// WithClock overrides the time source used by lifecycle and render services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithPageService overrides the default page service binding.
func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithSectionService overrides the default section service binding.
func WithSectionService(svc sections.Service) Option {
	return func(c *Container) {
		c.sectionSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		media:  resolver.NoopMediaProvider{},
		theme:  render.DefaultTheme(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureCaches()
	c.configureServices()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = logging.NoOpProvider()
		return nil
	}

	logCfg := gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	}
	if c.Config.Logging.Provider != "gologger" {
		logCfg.Format = "console"
	}

	provider, err := gologger.NewProvider(logCfg)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRepositories() error {
	if c.Config.Storage.Provider == "bun" && c.bunDB == nil {
		return ErrBunDBRequired
	}

	if c.bunDB != nil {
		c.configureRepositoryCache()
		if c.pageRepo == nil {
			c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.sectionRepo == nil {
			c.sectionRepo = sections.NewBunSectionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		return nil
	}

	if c.pageRepo == nil {
		c.pageRepo = pages.NewMemoryPageRepository()
	}
	if c.sectionRepo == nil {
		c.sectionRepo = sections.NewMemorySectionRepository()
	}
	return nil
}

func (c *Container) configureRepositoryCache() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.PageTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		if service, err := repocache.NewCacheService(cfg); err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureCaches() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheProvider == nil {
		c.cacheProvider = rendercache.NewMemoryCache()
	}
	c.renderStore = rendercache.NewStore(c.cacheProvider,
		rendercache.WithTTL(c.Config.Cache.PageTTL),
		rendercache.WithLogger(c.loggerProvider),
	)
}

func (c *Container) configureServices() {
	if c.pageSvc == nil {
		pageOpts := []pages.ServiceOption{pages.WithLogger(c.loggerProvider)}
		if c.clock != nil {
			pageOpts = append(pageOpts, pages.WithClock(c.clock))
		}
		c.pageSvc = pages.NewService(c.pageRepo, pageOpts...)
	}

	if c.sectionSvc == nil {
		sectionOpts := []sections.ServiceOption{sections.WithLogger(c.loggerProvider)}
		if c.clock != nil {
			sectionOpts = append(sectionOpts, sections.WithClock(c.clock))
		}
		c.sectionSvc = sections.NewService(c.sectionRepo, sectionOpts...)
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(c.loggerProvider)}
	if c.Config.Cache.Enabled && c.cacheProvider != nil {
		resolverOpts = append(resolverOpts, resolver.WithSectionCache(c.cacheProvider, c.Config.Cache.SectionTTL))
	}
	c.resolver = resolver.New(c.sectionRepo, c.media, resolverOpts...)

	c.renderer = render.NewRenderer(render.WithRendererLogger(c.loggerProvider))

	renderOpts := []render.ServiceOption{
		render.WithTheme(c.theme),
		render.WithBaseURL(c.Config.Site.BaseURL),
		render.WithDefaultLocale(c.Config.Site.DefaultLocale),
		render.WithServiceLogger(c.loggerProvider),
	}
	if c.renderStore != nil {
		renderOpts = append(renderOpts, render.WithCache(c.renderStore))
	}
	if c.clock != nil {
		renderOpts = append(renderOpts, render.WithClock(c.clock))
	}
	c.renderSvc = render.NewService(c.pageSvc, c.resolver, c.renderer, renderOpts...)

	sweepOpts := []sweep.Option{sweep.WithLogger(c.loggerProvider)}
	if c.renderStore != nil {
		sweepOpts = append(sweepOpts, sweep.WithPurger(c.renderSvc, c.Config.Site.Locales...))
	}
	c.sweeper = sweep.New(c.pageRepo, c.pageSvc, sweepOpts...)
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// CacheProvider exposes the render/section cache backend, nil when caching is disabled.
func (c *Container) CacheProvider() interfaces.CacheProvider {
	return c.cacheProvider
}

// MediaProvider exposes the configured media provider.
func (c *Container) MediaProvider() interfaces.MediaProvider {
	return c.media
}

// PageRepository exposes the configured page repository.
func (c *Container) PageRepository() pages.PageRepository {
	return c.pageRepo
}

// SectionRepository exposes the configured section repository.
func (c *Container) SectionRepository() sections.SectionRepository {
	return c.sectionRepo
}

// PageService returns the configured page lifecycle service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// SectionService returns the configured global section service.
func (c *Container) SectionService() sections.Service {
	return c.sectionSvc
}

// Resolver returns the reference resolver.
func (c *Container) Resolver() *resolver.Resolver {
	return c.resolver
}

// Renderer returns the document renderer.
func (c *Container) Renderer() *render.Renderer {
	return c.renderer
}

// RenderStore returns the render cache store, nil when caching is disabled.
func (c *Container) RenderStore() *rendercache.Store {
	return c.renderStore
}

// RenderService returns the cache-aware render pipeline.
func (c *Container) RenderService() render.Service {
	return c.renderSvc
}

// Sweeper returns the scheduled transition sweeper.
func (c *Container) Sweeper() *sweep.Sweeper {
	return c.sweeper
}
