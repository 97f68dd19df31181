package pagebuilder

import "github.com/goliatone/go-pagebuilder/internal/runtimeconfig"

var (
	ErrSchedulingFeatureRequiresVersioning = runtimeconfig.ErrSchedulingFeatureRequiresVersioning
	ErrCacheTTLInvalid                     = runtimeconfig.ErrCacheTTLInvalid
	ErrDefaultLocaleRequired               = runtimeconfig.ErrDefaultLocaleRequired
	ErrStorageProviderUnknown              = runtimeconfig.ErrStorageProviderUnknown
	ErrLoggingProviderRequired             = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown              = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid                 = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid                = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	SiteConfig    = runtimeconfig.SiteConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
