package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSchedulingFeatureRequiresVersioning ensures scheduling stays behind the versioning flag.
var ErrSchedulingFeatureRequiresVersioning = errors.New("pagebuilder config: scheduling feature requires versioning to be enabled")

// ErrCacheTTLInvalid rejects negative cache lifetimes.
var ErrCacheTTLInvalid = errors.New("pagebuilder config: cache TTL must be zero or positive")

// ErrDefaultLocaleRequired ensures renders always have a locale to fall back to.
var ErrDefaultLocaleRequired = errors.New("pagebuilder config: default locale is required")

var ErrStorageProviderUnknown = errors.New("pagebuilder config: storage provider is invalid")
var ErrLoggingProviderRequired = errors.New("pagebuilder config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("pagebuilder config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("pagebuilder config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("pagebuilder config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the pagebuilder module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Site     SiteConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Features Features
	Logging  LoggingConfig
}

// SiteConfig captures routing context used to derive render metadata.
type SiteConfig struct {
	BaseURL       string
	DefaultLocale string
	Locales       []string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	PageTTL    time.Duration
	SectionTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Versioning bool
	Scheduling bool
	Logger     bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			DefaultLocale: "en",
			Locales:       []string{"en"},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			PageTTL:    300 * time.Second,
			SectionTTL: 300 * time.Second,
		},
		Features: Features{
			Versioning: true,
			Scheduling: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if cfg.Features.Scheduling && !cfg.Features.Versioning {
		return ErrSchedulingFeatureRequiresVersioning
	}
	if cfg.Cache.PageTTL < 0 {
		return fmt.Errorf("%w: page", ErrCacheTTLInvalid)
	}
	if cfg.Cache.SectionTTL < 0 {
		return fmt.Errorf("%w: section", ErrCacheTTLInvalid)
	}
	if provider := normalize(cfg.Storage.Provider); provider != "" && provider != "memory" && provider != "bun" {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
