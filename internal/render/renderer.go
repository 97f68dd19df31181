package render

import (
	"github.com/goliatone/go-pagebuilder/internal/document"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/resolver"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// Diagnostics accumulates what a render had to work around. Occurrences are
// appended as seen; deduplication is left to the caller.
type Diagnostics struct {
	InteractiveBlocks []string `json:"interactiveBlocks"`
	MissingComponents []string `json:"missingComponents"`
	UsedLocale        string   `json:"usedLocale"`
	RenderedSections  []string `json:"renderedSections"`
}

// NewDiagnostics returns an empty record for the locale. Slices start
// non-nil so the JSON form always carries arrays.
func NewDiagnostics(locale string) *Diagnostics {
	return &Diagnostics{
		InteractiveBlocks: []string{},
		MissingComponents: []string{},
		UsedLocale:        locale,
		RenderedSections:  []string{},
	}
}

// Renderer walks a document depth first and emits static HTML. It is
// stateless across renders; all per-render state lives in the walk.
type Renderer struct {
	registry *Registry
	logger   interfaces.Logger
}

// RendererOption configures the renderer.
type RendererOption func(*Renderer)

// WithRegistry swaps the block table.
func WithRegistry(registry *Registry) RendererOption {
	return func(r *Renderer) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithRendererLogger attaches a logger provider.
func WithRendererLogger(provider interfaces.LoggerProvider) RendererOption {
	return func(r *Renderer) {
		r.logger = logging.RenderLogger(provider)
	}
}

// NewRenderer constructs a renderer over the default registry.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry: DefaultRegistry(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderDocument renders from the root node. The visited set tracks section
// keys on the current descent path only; it is created here and threaded
// through every recursive call.
func (r *Renderer) RenderDocument(doc document.Document, resolution *resolver.ResolutionMap, theme Theme, diagnostics *Diagnostics) (string, error) {
	if doc.Root() == nil {
		return "", document.ErrRootMissing
	}
	visited := map[string]bool{}
	return r.renderNode(document.RootID, doc, resolution, theme, diagnostics, visited), nil
}

func (r *Renderer) renderNode(id string, doc document.Document, resolution *resolver.ResolutionMap, theme Theme, diagnostics *Diagnostics, visited map[string]bool) string {
	node, ok := doc[id]
	if !ok || node == nil {
		// malformed trees render nothing rather than aborting the walk
		return ""
	}

	children := ""
	for _, childID := range node.Nodes {
		children += r.renderNode(childID, doc, resolution, theme, diagnostics, visited)
	}
	for _, linkedID := range node.LinkedNodeIDs() {
		children += r.renderNode(linkedID, doc, resolution, theme, diagnostics, visited)
	}

	name := node.Type.ResolvedName
	block, known := r.registry.Lookup(name)
	if !known {
		if name != "" {
			diagnostics.MissingComponents = append(diagnostics.MissingComponents, name)
		}
		return children
	}

	props := cloneProps(node.Props)
	switch name {
	case "CardBlock":
		if mediaID, ok := props["mediaId"].(string); ok && mediaID != "" {
			if asset, ok := resolution.Media[mediaID]; ok {
				props["mediaUrl"] = asset.URL
			}
		}
	case "MediaGalleryBlock":
		props["items"] = galleryItems(props, resolution)
	case "AccordionBlock":
		if _, ok := props["items"].([]any); ok {
			diagnostics.InteractiveBlocks = append(diagnostics.InteractiveBlocks, "AccordionBlock")
		}
	case "CarouselBlock":
		diagnostics.InteractiveBlocks = append(diagnostics.InteractiveBlocks, "CarouselBlock")
	case "ModalBlock":
		diagnostics.InteractiveBlocks = append(diagnostics.InteractiveBlocks, "ModalBlock")
	case "RepeatableListBlock", "RepeatableGridBlock":
		applyTableBinding(props, resolution)
	case "GlobalSectionBlock":
		return r.renderSection(block, props, doc, resolution, theme, diagnostics, visited)
	}

	return block(BlockInput{Props: props, Children: children, Theme: theme})
}

// renderSection expands a section reference in place. A key already on the
// current path renders the cycle sentinel instead of recursing; the key is
// removed again on return so sibling branches can reuse it.
func (r *Renderer) renderSection(block BlockFunc, props map[string]any, _ document.Document, resolution *resolver.ResolutionMap, theme Theme, diagnostics *Diagnostics, visited map[string]bool) string {
	key, _ := props["sectionKey"].(string)
	if key == "" {
		key, _ = props["key"].(string)
	}
	if key == "" {
		return block(BlockInput{Props: props, Theme: theme})
	}

	diagnostics.RenderedSections = append(diagnostics.RenderedSections, key)
	if visited[key] {
		props["sectionKey"] = key
		props["note"] = "Circular section reference"
		return block(BlockInput{Props: props, Theme: theme})
	}

	section := resolution.Sections[key]
	if section == nil || section.Content == nil {
		props["sectionKey"] = key
		return block(BlockInput{Props: props, Theme: theme})
	}

	nested, err := document.Parse(section.Content)
	if err != nil {
		r.logger.Warn("section content unparsable", "section_key", key, "error", err)
		props["sectionKey"] = key
		return block(BlockInput{Props: props, Theme: theme})
	}

	visited[key] = true
	html := r.renderNode(document.RootID, nested, resolution, theme, diagnostics, visited)
	delete(visited, key)
	return html
}

func galleryItems(props map[string]any, resolution *resolver.ResolutionMap) []GalleryItem {
	ids, _ := props["mediaIds"].([]any)
	items := make([]GalleryItem, 0, len(ids))
	for _, entry := range ids {
		id, ok := entry.(string)
		if !ok {
			continue
		}
		if asset, ok := resolution.Media[id]; ok {
			items = append(items, GalleryItem{URL: asset.URL, Alt: asset.AltText})
			continue
		}
		items = append(items, GalleryItem{})
	}
	return items
}

func applyTableBinding(props map[string]any, resolution *resolver.ResolutionMap) {
	tableID, _ := props["tableId"].(string)
	template := stringProp(props, "template", "{{name}}")

	var rows []interfaces.TableRow
	if tableID != "" {
		rows = resolution.Tables[tableID]
	}
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, applyTemplate(template, row))
	}

	header := tableID
	if header == "" {
		header = "table"
	}
	props["header"] = header
	props["items"] = items
}

func cloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
