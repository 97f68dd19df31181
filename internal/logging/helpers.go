package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithPageContext enriches the provided logger with the common page routing
// fields. Empty values are ignored.
func WithPageContext(logger interfaces.Logger, workspaceID, locale, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(workspaceID); trimmed != "" {
		fields["workspace_id"] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields["locale"] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields["slug"] = trimmed
	}
	return WithFields(logger, fields)
}
