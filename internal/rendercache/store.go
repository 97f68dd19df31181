package rendercache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultTTL is how long a rendered page stays cached when no TTL is configured.
const DefaultTTL = 300 * time.Second

// Metadata travels with a cached render so callers can build response
// headers and document titles without re-rendering.
type Metadata struct {
	Title        string `json:"title,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
	Locale       string `json:"locale,omitempty"`
}

// Entry is the cached value for one render. Diagnostics stay opaque here;
// the render layer owns their shape.
type Entry struct {
	HTML        string          `json:"html"`
	Diagnostics json.RawMessage `json:"diagnostics,omitempty"`
	Metadata    Metadata        `json:"metadata"`
}

// Store fronts a CacheProvider with the page key space. Draft keys are
// never served from cache and never written: draft previews must always
// reflect unsaved content.
type Store struct {
	cache  interfaces.CacheProvider
	ttl    time.Duration
	logger interfaces.Logger
}

// StoreOption configures the store at construction time.
type StoreOption func(*Store)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger attaches a logger provider.
func WithLogger(provider interfaces.LoggerProvider) StoreOption {
	return func(s *Store) {
		s.logger = logging.ModuleLogger(provider, "pagebuilder.rendercache")
	}
}

// NewStore constructs a render cache over the supplied provider.
func NewStore(cache interfaces.CacheProvider, opts ...StoreOption) *Store {
	s := &Store{
		cache:  cache,
		ttl:    DefaultTTL,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached entry for the key, or a miss. Cache failures are
// treated as misses; the caller re-renders.
func (s *Store) Get(ctx context.Context, key Key) (*Entry, bool) {
	if s == nil || s.cache == nil || key.Draft {
		return nil, false
	}
	value, err := s.cache.Get(ctx, key.String())
	if err != nil || value == nil {
		return nil, false
	}

	var encoded []byte
	switch typed := value.(type) {
	case []byte:
		encoded = typed
	case string:
		encoded = []byte(typed)
	default:
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(encoded, &entry); err != nil {
		s.logger.Debug("discarding undecodable cache entry", "key", key.String(), "error", err)
		return nil, false
	}
	return &entry, true
}

// Set stores the entry under the key. Draft renders are silently skipped.
func (s *Store) Set(ctx context.Context, key Key, entry *Entry) error {
	if s == nil || s.cache == nil || key.Draft || entry == nil {
		return nil
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key.String(), encoded, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "key", key.String(), "error", err)
		return err
	}
	return nil
}

// Purge removes both the public and the draft variants for a page. Called
// after every lifecycle transition that changes published content.
func (s *Store) Purge(ctx context.Context, workspaceID uuid.UUID, locale, slug string) error {
	if s == nil || s.cache == nil {
		return nil
	}
	var firstErr error
	for _, draft := range []bool{false, true} {
		key := Key{WorkspaceID: workspaceID, Locale: locale, Slug: slug, Draft: draft}
		if err := s.cache.Delete(ctx, key.String()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
