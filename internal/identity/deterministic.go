package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// WorkspaceUUID derives the workspace id from a human-readable key.
func WorkspaceUUID(workspaceKey string) uuid.UUID {
	return UUID("go-pagebuilder:workspace:" + strings.ToLower(strings.TrimSpace(workspaceKey)))
}

// SectionUUID derives the id for a global section scoped to its workspace.
func SectionUUID(workspaceID uuid.UUID, key string) uuid.UUID {
	return UUID("go-pagebuilder:section:" + workspaceID.String() + ":" + strings.ToLower(strings.TrimSpace(key)))
}
