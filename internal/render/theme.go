package render

import (
	"fmt"
	"os"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// Theme is the token set injected into the canvas root. Every value lands in
// a --nb-* CSS custom property so block markup can reference it with a
// literal fallback.
type Theme struct {
	Primary    string `json:"primary"`
	Surface    string `json:"surface"`
	SurfaceAlt string `json:"surfaceAlt"`
	Text       string `json:"text"`
	MutedText  string `json:"mutedText"`
	Border     string `json:"border"`
	Accent     string `json:"accent"`
	Radius     int    `json:"radius"`
	FontFamily string `json:"fontFamily"`
}

// DefaultTheme returns the stock token set.
func DefaultTheme() Theme {
	return Theme{
		Primary:    "#2563eb",
		Surface:    "#f8fafc",
		SurfaceAlt: "#ffffff",
		Text:       "#0f172a",
		MutedText:  "#475569",
		Border:     "#e2e8f0",
		Accent:     "#0ea5e9",
		Radius:     12,
		FontFamily: "'Inter', system-ui, -apple-system, sans-serif",
	}
}

// CSSVars maps the tokens onto their custom property names.
func (t Theme) CSSVars() map[string]string {
	return map[string]string{
		"--nb-primary":     t.Primary,
		"--nb-surface":     t.Surface,
		"--nb-surface-alt": t.SurfaceAlt,
		"--nb-text":        t.Text,
		"--nb-muted-text":  t.MutedText,
		"--nb-border":      t.Border,
		"--nb-accent":      t.Accent,
		"--nb-radius":      fmt.Sprintf("%dpx", t.Radius),
		"--nb-font":        t.FontFamily,
	}
}

// InlineStyle renders the custom properties as a style attribute fragment,
// sorted so output is deterministic.
func (t Theme) InlineStyle() string {
	vars := t.CSSVars()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(vars[name])
		b.WriteString(";")
	}
	return b.String()
}

// ThemeFromTokens overlays a token map onto the defaults. Unknown keys are
// ignored so manifests can carry extra tokens for their own templates.
func ThemeFromTokens(tokens map[string]string) Theme {
	theme := DefaultTheme()
	assign := func(key string, dst *string) {
		if value, ok := tokens[key]; ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	assign("primary", &theme.Primary)
	assign("surface", &theme.Surface)
	assign("surface-alt", &theme.SurfaceAlt)
	assign("surfaceAlt", &theme.SurfaceAlt)
	assign("text", &theme.Text)
	assign("muted-text", &theme.MutedText)
	assign("mutedText", &theme.MutedText)
	assign("border", &theme.Border)
	assign("accent", &theme.Accent)
	assign("font", &theme.FontFamily)
	assign("fontFamily", &theme.FontFamily)
	return theme
}

// ManifestThemeSource resolves themes from an on-disk manifest directory
// through the go-theme registry. Deployments without a theme directory use
// DefaultTheme directly.
type ManifestThemeSource struct {
	registry       *gotheme.MemoryRegistry
	defaultTheme   string
	defaultVariant string
}

// NewManifestThemeSource loads the manifest under dir and registers it.
func NewManifestThemeSource(dir, defaultTheme, defaultVariant string) (*ManifestThemeSource, error) {
	cleaned := strings.TrimSpace(dir)
	if cleaned == "" {
		return nil, fmt.Errorf("render: theme directory required")
	}

	manifest, err := gotheme.LoadDir(os.DirFS(cleaned), ".")
	if err != nil {
		return nil, fmt.Errorf("render: load theme manifest from %s: %w", cleaned, err)
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("render: register theme manifest: %w", err)
	}

	return &ManifestThemeSource{
		registry:       registry,
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}, nil
}

// Resolve selects the named theme and variant and converts its tokens.
func (s *ManifestThemeSource) Resolve(name, variant string) (Theme, error) {
	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}
	selection, err := selector.Select(strings.TrimSpace(name), strings.TrimSpace(variant))
	if err != nil {
		return DefaultTheme(), fmt.Errorf("render: select theme %q: %w", name, err)
	}
	return ThemeFromTokens(selection.Tokens()), nil
}
