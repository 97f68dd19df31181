package pages

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrWorkspaceRequired     = errors.New("pages: workspace id required")
	ErrPageRequired          = errors.New("pages: page id required")
	ErrSlugRequired          = errors.New("pages: slug is required")
	ErrSlugInvalid           = errors.New("pages: slug contains invalid characters")
	ErrTitleRequired         = errors.New("pages: title is required")
	ErrStatusInvalid         = errors.New("pages: invalid status")
	ErrVersionRequired       = errors.New("pages: version identifier required")
	ErrScheduleWindowInvalid = errors.New("pages: scheduled publish must precede scheduled unpublish")
	// ErrVersionConflict signals a lost race on version-number assignment.
	// The service retries a bounded number of times before surfacing it.
	ErrVersionConflict = errors.New("pages: version number conflict")
	// ErrVersioningDisabled rejects publish and rollback when the
	// versioning feature is switched off.
	ErrVersioningDisabled = errors.New("pages: versioning is disabled")
	// ErrSchedulingDisabled rejects schedule changes and the sweep when
	// the scheduling feature is switched off.
	ErrSchedulingDisabled = errors.New("pages: scheduling is disabled")
)

// ErrPageNotFound anchors typed page lookups so callers can use errors.Is.
var ErrPageNotFound = errors.New("pages: page not found")

// ErrVersionNotFound anchors typed version lookups.
var ErrVersionNotFound = errors.New("pages: version not found")

// PageNotFoundError reports a missing page by id or slug.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("pages: page %q not found", e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// PageVersionNotFoundError reports a missing version for a page.
type PageVersionNotFoundError struct {
	PageID  uuid.UUID
	Version int
}

func (e *PageVersionNotFoundError) Error() string {
	if e == nil {
		return ErrVersionNotFound.Error()
	}
	if e.Version > 0 {
		return fmt.Sprintf("pages: version %d not found for page %s", e.Version, e.PageID)
	}
	return fmt.Sprintf("pages: no versions found for page %s", e.PageID)
}

func (e *PageVersionNotFoundError) Unwrap() error {
	return ErrVersionNotFound
}
