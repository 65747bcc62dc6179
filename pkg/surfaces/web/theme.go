package web

import (
	"encoding/json"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeContext is the theme data exposed to templates.
type ThemeContext struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
	JSON         string            `json:"json,omitempty"`
}

// ThemeConfig resolves a manifest and variant into renderer configuration.
// Variant tokens override manifest tokens; every token becomes a "--<name>"
// CSS variable.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}
	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	if v, ok := manifest.Variants[variant]; ok {
		if tokens == nil && len(v.Tokens) > 0 {
			tokens = make(map[string]string, len(v.Tokens))
		}
		for key, value := range v.Tokens {
			tokens[key] = value
		}
		if partials == nil && len(v.Templates) > 0 {
			partials = make(map[string]string, len(v.Templates))
		}
		for key, value := range v.Templates {
			partials[key] = value
		}
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	files := manifest.Assets.Files
	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars(tokens),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return prefix + "/" + file
		},
	}
}

// TokensManifest builds a single-theme manifest from plain tokens, as read
// from configuration.
func TokensManifest(name string, tokens map[string]string, variants map[string]map[string]string) *theme.Manifest {
	manifest := &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  copyStringMap(tokens),
	}
	if len(variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(variants))
		for variant, overrides := range variants {
			manifest.Variants[variant] = theme.Variant{Tokens: copyStringMap(overrides)}
		}
	}
	return manifest
}

func buildThemeContext(cfg *theme.RendererConfig) ThemeContext {
	if cfg == nil {
		return ThemeContext{}
	}
	ctx := ThemeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	if payload, err := json.Marshal(map[string]any{"name": ctx.Name, "variant": ctx.Variant, "tokens": ctx.Tokens}); err == nil {
		ctx.JSON = string(payload)
	}
	return ctx
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+strings.TrimPrefix(key, "--")] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
