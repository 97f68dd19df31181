package resolver

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// demoRowCount mirrors the sample data sets used before a real data-table
// backend is wired in.
const demoRowCount = 4

// NoopMediaProvider is the default provider for deployments without a media
// library. Media references degrade to placeholders and tables resolve to
// demo rows, keeping renders fully functional.
type NoopMediaProvider struct{}

var _ interfaces.MediaProvider = NoopMediaProvider{}

// ResolveMedia reports every id as unresolved; the resolver substitutes
// placeholder URLs.
func (NoopMediaProvider) ResolveMedia(_ context.Context, _ []string) (map[string]interfaces.MediaResolution, error) {
	return map[string]interfaces.MediaResolution{}, nil
}

// ResolveTableRows produces deterministic demo rows for the table id.
func (NoopMediaProvider) ResolveTableRows(_ context.Context, tableID string) ([]interfaces.TableRow, error) {
	rows := make([]interfaces.TableRow, 0, demoRowCount)
	for i := 1; i <= demoRowCount; i++ {
		rows = append(rows, interfaces.TableRow{
			"name":        fmt.Sprintf("Row %d", i),
			"description": fmt.Sprintf("Demo content for %s", tableID),
			"price":       i * 10,
			"media":       map[string]any{"main": fmt.Sprintf("%s-media-%d", tableID, i)},
		})
	}
	return rows, nil
}
