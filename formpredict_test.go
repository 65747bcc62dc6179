package formpredict

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpredict/internal/config"
	"github.com/goliatone/go-formpredict/pkg/form"
)

func newApp(t *testing.T) *App {
	t.Helper()
	app, err := New(context.Background(), config.Defaults(), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func submit(t *testing.T, s TaskSchema, values map[string]string) form.Submission {
	t.Helper()
	submission, err := form.SubmissionFromStrings(s, values)
	if err != nil {
		t.Fatalf("%s: submission: %v", s.Name, err)
	}
	return submission
}

func TestDemoModelsFS_OnePerDefaultTask(t *testing.T) {
	app := newApp(t)

	want := []string{"breast_cancer", "diabetes_model", "heart_model", "parkinsons"}
	if diff := cmp.Diff(want, app.Gateway.Loaded()); diff != "" {
		t.Fatalf("preloaded models mismatch (-want +got):\n%s", diff)
	}

	entries, err := fs.ReadDir(DemoModelsFS(), ".")
	if err != nil {
		t.Fatalf("read demo models: %v", err)
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d artifacts, got %d", len(want), len(entries))
	}
}

func TestNew_EveryDefaultTaskPredicts(t *testing.T) {
	app := newApp(t)

	for _, s := range app.Registry.Schemas() {
		values := map[string]string{}
		for _, f := range s.Features {
			values[f.Name] = "1"
		}
		report := app.Controller.Evaluate(context.Background(), s.Name, submit(t, s, values))
		if report.Failure != nil || report.Result == nil {
			t.Fatalf("%s: expected a verdict, got failure %v (errors %v)", s.Name, report.Failure, report.Errors)
		}
		if !strings.HasPrefix(report.Message, "Prediction Result: ") {
			t.Fatalf("%s: unexpected message %q", s.Name, report.Message)
		}
	}
}

func TestNew_DiabetesVerdicts(t *testing.T) {
	app := newApp(t)
	s, err := app.Registry.Get("Diabetes Prediction")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{
			name: "high risk",
			values: map[string]string{
				"pregnancies": "6", "glucose": "190", "insulin": "0",
				"bmi": "38", "diabetes_pedigree_function": "0.6", "age": "50",
			},
			want: "Prediction Result: Diabetes Positive (probability",
		},
		{
			name: "low risk",
			values: map[string]string{
				"pregnancies": "0", "glucose": "85", "insulin": "0",
				"bmi": "22", "diabetes_pedigree_function": "0.2", "age": "25",
			},
			want: "Prediction Result: Diabetes Negative (probability",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := app.Controller.Evaluate(context.Background(), s.Name, submit(t, s, tt.values))
			if !strings.HasPrefix(report.Message, tt.want) {
				t.Fatalf("message = %q, want prefix %q", report.Message, tt.want)
			}
		})
	}
}

func TestNew_DirBackendWithoutArtifacts(t *testing.T) {
	cfg := config.Defaults()
	cfg.Models.Backend = config.BackendDir
	cfg.Models.Dir = t.TempDir()

	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("preload failures must not abort startup: %v", err)
	}
	defer app.Close()

	s, _ := app.Registry.Default()
	report := app.Controller.Evaluate(context.Background(), s.Name, submit(t, s, map[string]string{
		"pregnancies": "1", "glucose": "1", "insulin": "1", "bmi": "1", "diabetes_pedigree_function": "1", "age": "1",
	}))
	if report.Message != "model unavailable: diabetes_model" {
		t.Fatalf("unexpected message %q", report.Message)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := config.Defaults()
	cfg.Models.Backend = "ftp"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadRegistry_FromDir(t *testing.T) {
	dir := t.TempDir()
	doc := `tasks:
  - name: Custom
    model_ref: custom_model
    positive_label: Custom Positive
    negative_label: Custom Negative
    columns_per_row: 2
    features:
      - {name: a, label: A, kind: int}
`
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Custom"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"custom_model"}, ModelRefs(reg)); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_ServerServesThemedPages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Theme.Tokens = map[string]string{"fp-accent": "#0a7"}
	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer app.Close()

	srv, err := app.Server()
	if err != nil {
		t.Fatalf("server: %v", err)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/heart_disease_prediction", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"--fp-accent: #0a7;", "Heart Disease Prediction using Machine Learning", "A. Chest Pain Types"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}
