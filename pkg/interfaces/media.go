package interfaces

import "context"

// MediaProvider supplies externally managed assets and tabular data
// referenced from serialized documents. Implementations must tolerate
// unknown identifiers; resolution failures degrade to placeholders rather
// than failing a render.
type MediaProvider interface {
	// ResolveMedia fetches metadata for the supplied asset IDs. Missing IDs
	// are simply absent from the returned map.
	ResolveMedia(ctx context.Context, ids []string) (map[string]MediaResolution, error)
	// ResolveTableRows fetches the row set backing a data table reference.
	ResolveTableRows(ctx context.Context, tableID string) ([]TableRow, error)
}

// MediaUsageMarker is an optional MediaProvider extension. When implemented,
// the resolver reports which assets a render consumed so the media library
// can track usage. Failures are ignored.
type MediaUsageMarker interface {
	MarkUsage(ctx context.Context, ids []string) error
}

// MediaResolution is the resolved view of a single asset.
type MediaResolution struct {
	ID       string         `json:"id"`
	URL      string         `json:"url"`
	AltText  string         `json:"altText,omitempty"`
	MimeType string         `json:"mimeType,omitempty"`
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TableRow is a single record of a resolved data table. Keys are column
// names; values are whatever the backing store produced.
type TableRow map[string]any
