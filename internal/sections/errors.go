package sections

import (
	"errors"
	"fmt"
)

var (
	ErrWorkspaceRequired = errors.New("sections: workspace id required")
	ErrKeyRequired       = errors.New("sections: key is required")
	ErrKeyInvalid        = errors.New("sections: key contains invalid characters")
	ErrNameRequired      = errors.New("sections: name is required")
)

// ErrSectionNotFound anchors typed section lookups.
var ErrSectionNotFound = errors.New("sections: section not found")

// SectionNotFoundError reports a missing section by key or id.
type SectionNotFoundError struct {
	Key string
}

func (e *SectionNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrSectionNotFound.Error()
	}
	return fmt.Sprintf("sections: section %q not found", e.Key)
}

func (e *SectionNotFoundError) Unwrap() error {
	return ErrSectionNotFound
}
