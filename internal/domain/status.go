package domain

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a page.
type Status string

const (
	// StatusDraft indicates content still under preparation
	StatusDraft Status = "draft"
	// StatusScheduled marks content that has a future publish time configured
	StatusScheduled Status = "scheduled"
	// StatusPublished identifies content available to consumers
	StatusPublished Status = "published"
)

// ParseStatus coerces an arbitrary status string into a known Status.
// Unknown values are rejected so callers never persist invalid states.
func ParseStatus(input string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(input))); status {
	case StatusDraft, StatusScheduled, StatusPublished:
		return status, nil
	default:
		return "", fmt.Errorf("domain: invalid status %q", input)
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
