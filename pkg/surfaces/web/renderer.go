package web

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formpredict/pkg/form"
	rendertemplate "github.com/goliatone/go-formpredict/pkg/render/template"
	"github.com/goliatone/go-formpredict/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

const pageTemplate = "templates/page"

// Option configures the Renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	title            string
	basePath         string
	assetsPath       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved go-theme renderer configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithThemeSelector resolves the theme through a go-theme selector when the
// renderer is constructed.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(c *config) {
		c.selector = selector
		c.themeName = name
		c.themeVariant = variant
	}
}

// WithTitle sets the application title shown above the menu.
func WithTitle(title string) Option {
	return func(c *config) {
		if strings.TrimSpace(title) != "" {
			c.title = title
		}
	}
}

// WithBasePath mounts task pages under path (default "/tasks").
func WithBasePath(path string) Option {
	return func(c *config) {
		c.basePath = strings.TrimRight(path, "/")
	}
}

// WithAssetsPath sets where AssetsFS is served (default "/assets").
func WithAssetsPath(path string) Option {
	return func(c *config) {
		c.assetsPath = strings.TrimRight(path, "/")
	}
}

// Renderer turns collected pages into HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      ThemeContext
	title      string
	basePath   string
	assetsPath string
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		title:      "Multiple Disease Prediction System",
		basePath:   "/tasks",
		assetsPath: "/assets",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.selector != nil {
		selection, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("web renderer: select theme: %w", err)
		}
		if selection != nil {
			cfg.theme = ThemeConfig(selection.Manifest, selection.Variant)
		}
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("web renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:  templates,
		theme:      buildThemeContext(cfg.theme),
		title:      cfg.title,
		basePath:   cfg.basePath,
		assetsPath: cfg.assetsPath,
	}, nil
}

// ContentType is the media type of rendered pages.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// TaskURL returns the page URL of a task, addressed by its slug.
func (r *Renderer) TaskURL(name string) string {
	return r.basePath + "/" + schema.Slug(name)
}

// Page completes the page collected by surface with the chrome of the
// active task: title, menu, form action and theme.
func (r *Renderer) Page(registry *schema.Registry, active schema.TaskSchema, surface *Surface) Page {
	page := Page{}
	if surface != nil {
		page = surface.Page()
	}
	page.Title = r.title
	page.Heading = active.Heading()
	page.Task = active.Name
	page.Columns = active.ColumnsPerRow
	page.Action = r.TaskURL(active.Name)
	if page.SubmitLabel == "" && active.Name != "" {
		page.SubmitLabel = active.ButtonLabel()
	}
	if page.HelpHTML == "" {
		page.HelpHTML = HelpHTML(form.HelpText(active))
	}
	page.Menu = r.menu(registry, active.Name)
	attachFieldErrors(&page)
	page.Theme = r.theme
	page.Stylesheet = r.assetsPath + "/" + StylesheetName
	return page
}

// ErrorPage renders the chrome around a single error, e.g. an unknown task.
func (r *Renderer) ErrorPage(registry *schema.Registry, message string) Page {
	return Page{
		Title:      r.title,
		Heading:    r.title,
		Menu:       r.menu(registry, ""),
		Errors:     []string{message},
		Theme:      r.theme,
		Stylesheet: r.assetsPath + "/" + StylesheetName,
	}
}

// Render writes the page as HTML.
func (r *Renderer) Render(w io.Writer, page Page) error {
	if r.templates == nil {
		return fmt.Errorf("web renderer: template renderer is nil")
	}
	if _, err := r.templates.Render(pageTemplate, map[string]any{"page": page}, w); err != nil {
		return fmt.Errorf("web renderer: render template: %w", err)
	}
	return nil
}

func (r *Renderer) menu(registry *schema.Registry, active string) []MenuItem {
	if registry == nil {
		return nil
	}
	schemas := registry.Schemas()
	items := make([]MenuItem, 0, len(schemas))
	for _, s := range schemas {
		items = append(items, MenuItem{
			Name:   s.Name,
			Icon:   s.Icon,
			URL:    r.TaskURL(s.Name),
			Active: s.Name == active,
		})
	}
	return items
}
