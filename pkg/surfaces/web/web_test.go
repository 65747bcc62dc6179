package web_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpredict/pkg/controller"
	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/schema"
	"github.com/goliatone/go-formpredict/pkg/surfaces/web"
	"github.com/goliatone/go-formpredict/pkg/testsupport"
)

type halfModel struct{}

func (halfModel) Predict([]float64) (float64, error)        { return 0, nil }
func (halfModel) PredictProba([]float64) ([]float64, error) { return []float64{0.9, 0.1}, nil }

func newController(t *testing.T) *controller.Controller {
	t.Helper()
	reg := testsupport.MustRegistry(t, testsupport.MixedSchema(), testsupport.ScreeningSchema())
	return controller.New(reg, inference.NewGateway(nil, inference.WithModel("mixed_model", halfModel{})))
}

func TestSurfaceCollectsRowsWithoutSubmitting(t *testing.T) {
	ctrl := newController(t)
	surface := web.NewSurface(nil, false)

	report, err := ctrl.Cycle(context.Background(), surface, "Mixed")
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if report.Submitted() {
		t.Fatal("a page view must not submit")
	}

	page := surface.Page()
	var layout [][]string
	for _, row := range page.Rows {
		var names []string
		for _, w := range row {
			names = append(names, w.Name)
		}
		layout = append(layout, names)
	}
	want := [][]string{{"age", "cp"}, {"oldpeak", "fbs"}, {"chol"}}
	if diff := cmp.Diff(want, layout); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	fbs := page.Rows[1][1]
	wantOptions := []web.SelectOption{{Value: "0"}, {Value: "1", Selected: true}}
	if diff := cmp.Diff(wantOptions, fbs.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if page.SubmitLabel != "Mixed Prediction" {
		t.Fatalf("submit label = %q", page.SubmitLabel)
	}
	if !strings.Contains(page.HelpHTML, "0 -&gt; typical") {
		t.Fatalf("help not sanitised/escaped: %q", page.HelpHTML)
	}
}

func TestSurfaceSubmissionProducesVerdict(t *testing.T) {
	ctrl := newController(t)
	surface := web.NewSurface(map[string]string{
		"age":           "52",
		"cp":            "3",
		"ST depression": "0.5",
		"fbs":           "7",
		"chol":          "210",
	}, true)

	report, err := ctrl.Cycle(context.Background(), surface, "Mixed")
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if diff := cmp.Diff([]float64{52, 3, 0.5, 1, 210}, report.Outcome.Vector); diff != "" {
		t.Fatalf("vector mismatch (-want +got):\n%s", diff)
	}
	page := surface.Page()
	if diff := cmp.Diff([]string{"Prediction Result: Mixed Negative (probability 10.00%)"}, page.Successes); diff != "" {
		t.Fatalf("successes mismatch (-want +got):\n%s", diff)
	}
	if page.Rows[0][0].Value != "52" {
		t.Fatalf("posted value not echoed: %+v", page.Rows[0][0])
	}
}

func TestRendererRendersPage(t *testing.T) {
	ctrl := newController(t)
	surface := web.NewSurface(map[string]string{"age": "", "glucose": "<b>x</b>"}, true)
	if _, err := ctrl.Cycle(context.Background(), surface, "Screening"); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	renderer, err := web.New(web.WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--fp-accent": "#123456"},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	active, err := ctrl.Registry().Get("Screening")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, renderer.Page(ctrl.Registry(), active, surface)); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`<form class="fp-form" method="post" action="/tasks/screening">`,
		`name="age"`,
		`name="glucose" value="&lt;b&gt;x&lt;/b&gt;"`,
		`Age: missing`,
		`href="/tasks/mixed"`,
		`aria-current="page"`,
		`--fp-accent: #123456;`,
		`data-theme="acme"`,
		`href="/assets/formpredict.css"`,
		`Screening Prediction</button>`,
		`repeat(3, minmax(0, 1fr))`,
		`data-cell="0.1"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered page missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<b>x</b>") {
		t.Fatal("posted markup must be escaped")
	}
}

func TestErrorPage(t *testing.T) {
	renderer, err := web.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	reg := testsupport.MustRegistry(t, testsupport.ScreeningSchema())

	var buf bytes.Buffer
	if err := renderer.Render(&buf, renderer.ErrorPage(reg, `unknown task "x"`)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `unknown task &quot;x&quot;`) {
		t.Fatalf("unexpected page:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "<form") {
		t.Fatal("error page must not render a form")
	}
}

type recordingTemplates struct {
	names []string
	page  web.Page
}

func (r *recordingTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	r.names = append(r.names, name)
	r.page = data.(map[string]any)["page"].(web.Page)
	for _, w := range out {
		_, _ = io.WriteString(w, "ok")
	}
	return "ok", nil
}

func TestRendererUsesInjectedTemplateRenderer(t *testing.T) {
	templates := &recordingTemplates{}
	renderer, err := web.New(web.WithTemplateRenderer(templates))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	reg := testsupport.MustRegistry(t, testsupport.ScreeningSchema())

	var buf bytes.Buffer
	if err := renderer.Render(&buf, renderer.ErrorPage(reg, "boom")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "ok" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if diff := cmp.Diff([]string{"templates/page"}, templates.names); diff != "" {
		t.Fatalf("template names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"boom"}, templates.page.Errors); diff != "" {
		t.Fatalf("page errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHelpHTMLStripsUnsafeMarkup(t *testing.T) {
	got := web.HelpHTML("<strong>Note</strong><script>alert(1)</script>\nline two")
	if got != "<strong>Note</strong><br>\nline two" {
		t.Fatalf("HelpHTML = %q", got)
	}
}

func TestThemeConfigMergesVariant(t *testing.T) {
	manifest := web.TokensManifest("acme", map[string]string{"brand": "#111", "text": "#222"}, map[string]map[string]string{
		"dark": {"brand": "#999"},
	})
	manifest.Assets = theme.Assets{Prefix: "/static/", Files: map[string]string{"stylesheet": "acme.css"}}

	cfg := web.ThemeConfig(manifest, "dark")
	want := map[string]string{"--brand": "#999", "--text": "#222"}
	if diff := cmp.Diff(want, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/static/acme.css" {
		t.Fatalf("asset url = %q", got)
	}
	if cfg.AssetURL("missing") != "" {
		t.Fatal("unknown assets resolve to empty string")
	}
}

type stubSelector struct {
	selection *theme.Selection
	calls     []string
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, nil
}

func TestRendererUsesThemeSelector(t *testing.T) {
	selector := &stubSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "light",
		Manifest: web.TokensManifest("acme", map[string]string{"fp-accent": "#abcdef"}, nil),
	}}
	renderer, err := web.New(web.WithThemeSelector(selector, "acme", "light"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if diff := cmp.Diff([]string{"acme/light"}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}

	page := renderer.Page(nil, schema.TaskSchema{Name: "X"}, nil)
	if !strings.Contains(page.Theme.CSSVarsStyle, "--fp-accent: #abcdef;") {
		t.Fatalf("unexpected css vars %q", page.Theme.CSSVarsStyle)
	}
}

func TestPageAttachesFieldErrors(t *testing.T) {
	ctrl := newController(t)
	surface := web.NewSurface(map[string]string{"age": "abc"}, true)
	if _, err := ctrl.Cycle(context.Background(), surface, "Screening"); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	surface.Error(context.Background(), "Age: invalid number 'abc'")
	surface.Error(context.Background(), "model unavailable: screening_model")

	renderer, err := web.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	active, _ := ctrl.Registry().Get("Screening")
	page := renderer.Page(ctrl.Registry(), active, surface)

	if diff := cmp.Diff([]string{"Age: invalid number 'abc'"}, page.Rows[0][0].Errors); diff != "" {
		t.Fatalf("age errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Glucose: missing"}, page.Rows[0][1].Errors); diff != "" {
		t.Fatalf("glucose errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"model unavailable: screening_model"}, page.Errors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
