package rendercache

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Key identifies one cached render. The draft flag is part of the key space
// so draft previews can never collide with public entries.
type Key struct {
	WorkspaceID uuid.UUID
	Locale      string
	Slug        string
	Draft       bool
}

// String renders the deterministic cache key:
// page:<workspace>:<locale>:<slug>:draft:<0|1>.
func (k Key) String() string {
	draft := "0"
	if k.Draft {
		draft = "1"
	}
	return fmt.Sprintf("page:%s:%s:%s:draft:%s", k.WorkspaceID, k.Locale, NormalizeSlug(k.Slug), draft)
}

// NormalizeSlug collapses equivalent request paths onto one key: trailing
// slashes are stripped and the empty path maps to "/".
func NormalizeSlug(slug string) string {
	trimmed := strings.TrimSpace(slug)
	for strings.HasSuffix(trimmed, "/") && len(trimmed) > 1 {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	if trimmed == "" || trimmed == "/" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}
