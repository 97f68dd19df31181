package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// GalleryItem is one resolved media entry for a gallery block.
type GalleryItem struct {
	URL string
	Alt string
}

// BlockInput carries everything a block needs: its (already augmented)
// props, the pre-rendered child markup, and the active theme.
type BlockInput struct {
	Props    map[string]any
	Children string
	Theme    Theme
}

// BlockFunc renders one block to HTML.
type BlockFunc func(in BlockInput) string

// Registry is the closed name to renderer table. Unknown names are a
// representable outcome, not an error; the renderer falls back to the
// block's children.
type Registry struct {
	blocks map[string]BlockFunc
}

// Lookup returns the renderer for a component name.
func (r *Registry) Lookup(name string) (BlockFunc, bool) {
	fn, ok := r.blocks[name]
	return fn, ok
}

// Names returns the registered component names, for diagnostics surfaces.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.blocks))
	for name := range r.blocks {
		out = append(out, name)
	}
	return out
}

// DefaultRegistry builds the standard block set.
func DefaultRegistry() *Registry {
	return &Registry{blocks: map[string]BlockFunc{
		"PageCanvas":          renderPageCanvas,
		"HeadingBlock":        renderHeading,
		"ParagraphBlock":      renderParagraph,
		"ButtonBlock":         renderButton,
		"LinkBlock":           renderLink,
		"ChipBlock":           renderChip,
		"DividerBlock":        renderDivider,
		"GridBlock":           renderGrid,
		"CardBlock":           renderCard,
		"CalloutBlock":        renderCallout,
		"CarouselBlock":       renderCarousel,
		"TableBlock":          renderTable,
		"MediaEmbedBlock":     renderMediaEmbed,
		"MediaGalleryBlock":   renderMediaGallery,
		"AccordionBlock":      renderAccordion,
		"ModalBlock":          renderModal,
		"RepeatableListBlock": renderRepeatableList,
		"RepeatableGridBlock": renderRepeatableGrid,
		"GlobalSectionBlock":  renderGlobalSection,
		"MarkdownBlock":       renderMarkdown,
	}}
}

func stringProp(props map[string]any, key, fallback string) string {
	if value, ok := props[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func intProp(props map[string]any, key string, fallback int) int {
	switch value := props[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	}
	return fallback
}

func stringsProp(props map[string]any, key string) []string {
	switch value := props[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func esc(value string) string {
	return html.EscapeString(value)
}

func renderPageCanvas(in BlockInput) string {
	background := stringProp(in.Props, "background", "#f8fafc")
	padding := intProp(in.Props, "padding", 32)
	gap := intProp(in.Props, "gap", 20)
	maxWidth := intProp(in.Props, "maxWidth", 1200)

	outer := fmt.Sprintf(
		"background:%s;padding:%dpx;min-height:100%%;width:100%%;color:var(--nb-text, #0f172a);font-family:var(--nb-font, 'Inter', system-ui, -apple-system, sans-serif);%s",
		esc(background), padding, in.Theme.InlineStyle())
	inner := fmt.Sprintf("display:flex;flex-direction:column;gap:%dpx;max-width:%dpx;margin:0 auto", gap, maxWidth)
	return fmt.Sprintf(`<div style="%s"><div style="%s">%s</div></div>`, outer, inner, in.Children)
}

var headingLevels = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

func renderHeading(in BlockInput) string {
	text := stringProp(in.Props, "text", "Heading")
	level := stringProp(in.Props, "level", "h2")
	if !headingLevels[level] {
		level = "h2"
	}
	align := stringProp(in.Props, "align", "left")
	return fmt.Sprintf(`<%[1]s style="margin:0;text-align:%s;font-weight:700;color:var(--nb-text, #0f172a)">%s%s</%[1]s>`,
		level, esc(align), esc(text), in.Children)
}

func renderParagraph(in BlockInput) string {
	text := stringProp(in.Props, "text", "Body copy")
	align := stringProp(in.Props, "align", "left")
	return fmt.Sprintf(`<p style="margin:0;line-height:1.6;color:var(--nb-text, #0f172a);text-align:%s">%s%s</p>`,
		esc(align), esc(text), in.Children)
}

func renderButton(in BlockInput) string {
	label := stringProp(in.Props, "label", "Button")
	href := stringProp(in.Props, "href", "#")
	palette := map[string]string{
		"primary":   "background:var(--nb-primary, #2563eb);color:#ffffff;border:none",
		"secondary": "background:#0f172a;color:#ffffff;border:none",
		"ghost":     "background:transparent;color:#0f172a;border:1px solid var(--nb-border, #cbd5e1)",
	}
	variant := stringProp(in.Props, "variant", "primary")
	style, ok := palette[variant]
	if !ok {
		style = palette["primary"]
	}
	return fmt.Sprintf(`<a href="%s" style="display:inline-flex;align-items:center;justify-content:center;gap:8px;padding:12px 16px;border-radius:10px;font-weight:600;text-decoration:none;%s">%s</a>`,
		esc(href), style, esc(label))
}

func renderLink(in BlockInput) string {
	label := stringProp(in.Props, "label", "Link")
	href := stringProp(in.Props, "href", "#")
	return fmt.Sprintf(`<a href="%s" style="color:var(--nb-primary, #2563eb);text-decoration:underline;font-weight:600">%s</a>`,
		esc(href), esc(label))
}

func renderChip(in BlockInput) string {
	label := stringProp(in.Props, "label", "Chip")
	return fmt.Sprintf(`<span style="display:inline-flex;align-items:center;padding:6px 10px;border-radius:999px;background:var(--nb-surface-alt, #f1f5f9);color:var(--nb-text, #0f172a);border:1px solid var(--nb-border, #e2e8f0);font-weight:600">%s</span>`,
		esc(label))
}

func renderDivider(in BlockInput) string {
	thickness := intProp(in.Props, "thickness", 1)
	return fmt.Sprintf(`<div style="height:%dpx;background:var(--nb-border, #e2e8f0);width:100%%"></div>`, thickness)
}

func renderGrid(in BlockInput) string {
	columns := intProp(in.Props, "columns", 3)
	gap := intProp(in.Props, "gap", 16)
	return fmt.Sprintf(`<div style="display:grid;gap:%dpx;grid-template-columns:repeat(%d, minmax(0, 1fr))">%s</div>`,
		gap, columns, in.Children)
}

func renderCard(in BlockInput) string {
	title := stringProp(in.Props, "title", "Card title")
	body := stringProp(in.Props, "body", "Card body")

	var b strings.Builder
	b.WriteString(`<div style="border:1px solid #e2e8f0;border-radius:12px;padding:16px;background:#ffffff;box-shadow:0 10px 30px rgba(15, 23, 42, 0.06);display:flex;flex-direction:column;gap:8px">`)
	if mediaURL, ok := in.Props["mediaUrl"].(string); ok && mediaURL != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="" style="width:100%%;border-radius:10px;object-fit:cover"/>`, esc(mediaURL))
	}
	if title != "" {
		fmt.Fprintf(&b, `<h3 style="margin:0;font-size:18px;font-weight:700">%s</h3>`, esc(title))
	}
	if body != "" {
		fmt.Fprintf(&b, `<p style="margin:0;color:#475569">%s</p>`, esc(body))
	}
	b.WriteString(in.Children)
	b.WriteString(`</div>`)
	return b.String()
}

var calloutTones = map[string]string{
	"info":    "#eef2ff",
	"success": "#ecfdf3",
	"warning": "#fff7ed",
	"danger":  "#fef2f2",
}

func renderCallout(in BlockInput) string {
	text := stringProp(in.Props, "text", "Highlight information.")
	tone, ok := calloutTones[stringProp(in.Props, "tone", "info")]
	if !ok {
		tone = calloutTones["info"]
	}
	return fmt.Sprintf(`<div style="background:%s;border-radius:12px;padding:16px;border:1px solid #e2e8f0;color:#0f172a">%s</div>`,
		tone, esc(text))
}

func renderCarousel(in BlockInput) string {
	return fmt.Sprintf(`<div data-block="carousel" style="display:flex;gap:12px;overflow-x:auto;padding:4px 2px">%s</div>`, in.Children)
}

func renderTable(in BlockInput) string {
	headers := stringsProp(in.Props, "headers")
	if headers == nil {
		headers = []string{"Column"}
	}

	var b strings.Builder
	b.WriteString(`<div style="overflow-x:auto"><table style="width:100%;border-collapse:collapse;font-size:14px"><thead><tr>`)
	for _, header := range headers {
		fmt.Fprintf(&b, `<th style="text-align:left;padding:8px 10px;border-bottom:1px solid #e2e8f0">%s</th>`, esc(header))
	}
	b.WriteString(`</tr></thead><tbody>`)
	if rows, ok := in.Props["rows"].([]any); ok {
		for _, row := range rows {
			cells, ok := row.([]any)
			if !ok {
				continue
			}
			b.WriteString(`<tr>`)
			for _, cell := range cells {
				fmt.Fprintf(&b, `<td style="padding:8px 10px;border-bottom:1px solid #f1f5f9">%s</td>`, esc(fmt.Sprint(cell)))
			}
			b.WriteString(`</tr>`)
		}
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

func renderMediaEmbed(in BlockInput) string {
	url := stringProp(in.Props, "url", "https://www.youtube.com/embed/dQw4w9WgXcQ")
	title := stringProp(in.Props, "title", "Embedded media")
	return fmt.Sprintf(`<div style="position:relative;padding-bottom:56.25%%;height:0;overflow:hidden;border-radius:12px"><iframe src="%s" title="%s" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy" style="position:absolute;inset:0;width:100%%;height:100%%;border:none"></iframe></div>`,
		esc(url), esc(title))
}

func renderMediaGallery(in BlockInput) string {
	var b strings.Builder
	b.WriteString(`<div style="display:grid;grid-template-columns:repeat(auto-fill, minmax(180px, 1fr));gap:12px">`)
	if items, ok := in.Props["items"].([]GalleryItem); ok {
		for _, item := range items {
			fmt.Fprintf(&b, `<picture><img src="%s" alt="%s" loading="lazy" style="width:100%%;height:100%%;object-fit:cover;border-radius:10px"/></picture>`,
				esc(item.URL), esc(item.Alt))
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderAccordion(in BlockInput) string {
	var b strings.Builder
	b.WriteString(`<div data-block="accordion" style="display:flex;flex-direction:column;gap:8px">`)
	if items, ok := in.Props["items"].([]any); ok {
		for _, entry := range items {
			item, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `<details style="border:1px solid #e2e8f0;border-radius:10px;padding:10px 12px;background:#fff"><summary style="cursor:pointer;font-weight:600;color:var(--nb-text, #0f172a)">%s</summary><p style="margin-top:8px;color:#475569">%s</p></details>`,
				esc(stringProp(item, "title", "")), esc(stringProp(item, "body", "")))
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderModal(in BlockInput) string {
	triggerLabel := stringProp(in.Props, "triggerLabel", "Open modal")
	body := stringProp(in.Props, "body", "Modal content")
	return fmt.Sprintf(`<div data-block="modal" style="display:inline-flex;flex-direction:column;gap:8px"><button type="button" style="padding:10px 12px;border-radius:10px;border:1px solid #cbd5e1;background:#fff">%s</button><div data-modal-body style="display:none;padding:12px;border:1px solid #e2e8f0;border-radius:10px;background:#f8fafc">%s</div></div>`,
		esc(triggerLabel), esc(body))
}

func renderRepeatableList(in BlockInput) string {
	header := stringProp(in.Props, "header", "list")
	var b strings.Builder
	b.WriteString(`<div style="border:1px dashed #cbd5e1;padding:12px;border-radius:10px;background:#f8fafc;color:#0f172a">`)
	fmt.Fprintf(&b, `<div style="font-size:12px;text-transform:uppercase;color:#475569;margin-bottom:6px">%s</div>`, esc(header))
	b.WriteString(`<ul style="margin:0;padding-left:18px;display:flex;flex-direction:column;gap:6px">`)
	for _, item := range stringsProp(in.Props, "items") {
		fmt.Fprintf(&b, `<li>%s</li>`, esc(item))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func renderRepeatableGrid(in BlockInput) string {
	header := stringProp(in.Props, "header", "grid")
	var b strings.Builder
	b.WriteString(`<div style="border:1px dashed #cbd5e1;padding:12px;border-radius:10px;background:#f8fafc;color:#0f172a">`)
	fmt.Fprintf(&b, `<div style="font-size:12px;text-transform:uppercase;color:#475569;margin-bottom:6px">%s</div>`, esc(header))
	b.WriteString(`<div style="display:grid;grid-template-columns:repeat(auto-fill, minmax(180px, 1fr));gap:10px">`)
	for _, item := range stringsProp(in.Props, "items") {
		fmt.Fprintf(&b, `<div style="border:1px solid #e2e8f0;border-radius:8px;padding:10px;background:#fff">%s</div>`, esc(item))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderGlobalSection(in BlockInput) string {
	sectionKey := stringProp(in.Props, "sectionKey", "section")
	note := stringProp(in.Props, "note", "Global section")
	return fmt.Sprintf(`<div style="border:1px dashed #94a3b8;padding:12px;border-radius:10px;background:#f1f5f9;color:#334155"><p style="margin:0;font-weight:700">%s</p><p style="margin:4px 0 0;font-size:12px">Section key: %s</p></div>`,
		esc(note), esc(sectionKey))
}

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(gparser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

func renderMarkdown(in BlockInput) string {
	source := stringProp(in.Props, "markdown", "")
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return fmt.Sprintf(`<pre>%s</pre>`, esc(source))
	}
	return fmt.Sprintf(`<div data-block="markdown">%s</div>`, buf.String())
}
