package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/document"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/sections"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// defaultSectionTTL fronts section lookups with a short cache window.
const defaultSectionTTL = 300 * time.Second

// SectionResolution is the resolved view of one section key. Content is nil
// for missing sections; the renderer treats that as "no content".
type SectionResolution struct {
	Key     string         `json:"key"`
	Content map[string]any `json:"content,omitempty"`
}

// ResolutionMap carries everything a single render needs from the outside
// world. Built once per render, discarded after.
type ResolutionMap struct {
	Media    map[string]interfaces.MediaResolution
	Tables   map[string][]interfaces.TableRow
	Sections map[string]*SectionResolution
}

// Resolver turns the reference set of a document into resolved values.
// Failures never propagate: a bad media id degrades to a placeholder URL, a
// missing table to an empty row set, a missing section to nil content.
type Resolver struct {
	sections   sections.SectionRepository
	media      interfaces.MediaProvider
	cache      interfaces.CacheProvider
	sectionTTL time.Duration
	cdnBase    string
	logger     interfaces.Logger
}

// Option configures the resolver at construction time.
type Option func(*Resolver)

// WithSectionCache fronts section lookups with the supplied cache provider.
func WithSectionCache(cache interfaces.CacheProvider, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = cache
		if ttl > 0 {
			r.sectionTTL = ttl
		}
	}
}

// WithCDNBase overrides the base URL used for placeholder media.
func WithCDNBase(base string) Option {
	return func(r *Resolver) {
		r.cdnBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(r *Resolver) {
		r.logger = logging.ResolverLogger(provider)
	}
}

// New constructs a resolver. The media provider may be nil; every media and
// table reference then degrades to placeholders.
func New(sectionRepo sections.SectionRepository, media interfaces.MediaProvider, opts ...Option) *Resolver {
	r := &Resolver{
		sections:   sectionRepo,
		media:      media,
		sectionTTL: defaultSectionTTL,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches every referenced value. The three reference groups have no
// ordering dependency, so they resolve concurrently; the call completes
// before render starts.
func (r *Resolver) Resolve(ctx context.Context, workspaceID uuid.UUID, refs document.References) *ResolutionMap {
	out := &ResolutionMap{
		Media:    map[string]interfaces.MediaResolution{},
		Tables:   map[string][]interfaces.TableRow{},
		Sections: map[string]*SectionResolution{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		r.resolveMedia(ctx, refs.MediaIDs(), out)
	}()
	go func() {
		defer wg.Done()
		r.resolveTables(ctx, refs.TableIDs(), out)
	}()
	go func() {
		defer wg.Done()
		r.resolveSections(ctx, workspaceID, refs.SectionKeys(), out)
	}()
	wg.Wait()

	return out
}

func (r *Resolver) resolveMedia(ctx context.Context, ids []string, out *ResolutionMap) {
	if len(ids) == 0 {
		return
	}

	resolved := map[string]interfaces.MediaResolution{}
	if r.media != nil {
		var err error
		resolved, err = r.media.ResolveMedia(ctx, ids)
		if err != nil {
			r.logger.Warn("media resolution failed, using placeholders", "error", err)
			resolved = map[string]interfaces.MediaResolution{}
		}
	}

	for _, id := range ids {
		if asset, ok := resolved[id]; ok && asset.URL != "" {
			out.Media[id] = asset
			continue
		}
		out.Media[id] = interfaces.MediaResolution{
			ID:      id,
			URL:     r.placeholderURL(id),
			AltText: fmt.Sprintf("Media asset %s", id),
		}
	}

	if marker, ok := r.media.(interfaces.MediaUsageMarker); ok && marker != nil {
		// best effort; usage tracking must never affect a render
		if err := marker.MarkUsage(ctx, ids); err != nil {
			r.logger.Debug("media usage marking failed", "error", err)
		}
	}
}

func (r *Resolver) resolveTables(ctx context.Context, ids []string, out *ResolutionMap) {
	for _, id := range ids {
		if r.media == nil {
			out.Tables[id] = []interfaces.TableRow{}
			continue
		}
		rows, err := r.media.ResolveTableRows(ctx, id)
		if err != nil {
			r.logger.Warn("table resolution failed", "table_id", id, "error", err)
			out.Tables[id] = []interfaces.TableRow{}
			continue
		}
		if rows == nil {
			rows = []interfaces.TableRow{}
		}
		out.Tables[id] = rows
	}
}

func (r *Resolver) resolveSections(ctx context.Context, workspaceID uuid.UUID, keys []string, out *ResolutionMap) {
	for _, key := range keys {
		cacheKey := sectionCacheKey(workspaceID, key)
		if cached := r.cachedSection(ctx, cacheKey); cached != nil {
			out.Sections[key] = cached
			continue
		}

		if r.sections == nil {
			continue
		}
		record, err := r.sections.GetByKey(ctx, workspaceID, key)
		if err != nil {
			// missing sections are "no content", not an error
			r.logger.Debug("section not resolved", "key", key, "error", err)
			continue
		}
		if record == nil || record.DeletedAt != nil {
			continue
		}
		resolution := &SectionResolution{Key: key, Content: record.Content()}
		out.Sections[key] = resolution
		r.storeSection(ctx, cacheKey, resolution)
	}
}

func (r *Resolver) cachedSection(ctx context.Context, cacheKey string) *SectionResolution {
	if r.cache == nil {
		return nil
	}
	value, err := r.cache.Get(ctx, cacheKey)
	if err != nil || value == nil {
		return nil
	}
	var encoded []byte
	switch typed := value.(type) {
	case []byte:
		encoded = typed
	case string:
		encoded = []byte(typed)
	default:
		return nil
	}
	var resolution SectionResolution
	if err := json.Unmarshal(encoded, &resolution); err != nil {
		return nil
	}
	return &resolution
}

func (r *Resolver) storeSection(ctx context.Context, cacheKey string, resolution *SectionResolution) {
	if r.cache == nil {
		return
	}
	encoded, err := json.Marshal(resolution)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey, encoded, r.sectionTTL); err != nil {
		r.logger.Debug("section cache write failed", "key", cacheKey, "error", err)
	}
}

func (r *Resolver) placeholderURL(id string) string {
	base := r.cdnBase
	if base == "" {
		base = "https://placehold.co"
	}
	return fmt.Sprintf("%s/800x450?text=%s", base, url.QueryEscape(id))
}

func sectionCacheKey(workspaceID uuid.UUID, key string) string {
	return fmt.Sprintf("section:%s:%s", workspaceID, key)
}
