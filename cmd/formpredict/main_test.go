package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formpredict.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTasksCommand(t *testing.T) {
	out, err := run(t, "tasks")
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	for _, want := range []string{
		"diabetes_prediction",
		"heart_disease_prediction",
		"parkinson_s_disease_prediction",
		"breast_cancer_prediction",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("tasks output missing %q:\n%s", want, out)
		}
	}
}

func TestPredictCommand(t *testing.T) {
	out, err := run(t, "predict", "diabetes_prediction",
		"--set", "pregnancies=2", "--set", "glucose=138", "--set", "insulin=0",
		"--set", "bmi=33.6", "--set", "diabetes_pedigree_function=0.627", "--set", "age=47")
	if err != nil {
		t.Fatalf("predict: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "Prediction Result: Diabetes Positive") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPredictCommand_Rejected(t *testing.T) {
	out, err := run(t, "predict", "diabetes_prediction", "--set", "glucose=high")
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected errRejected, got %v", err)
	}
	if !strings.Contains(out, "Glucose Level: invalid number 'high'") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPredictCommand_JSON(t *testing.T) {
	out, err := run(t, "predict", "Heart Disease Prediction", "--json",
		"--set", "age=63", "--set", "cp=3", "--set", "trestbps=145", "--set", "chol=233",
		"--set", "fbs=1", "--set", "restecg=0", "--set", "thalach=150", "--set", "exang=0",
		"--set", "oldpeak=2.3", "--set", "slope=0", "--set", "ca=0")
	if err != nil {
		t.Fatalf("predict: %v\n%s", err, out)
	}

	var report struct {
		Schema  string `json:"schema"`
		Verdict string `json:"verdict"`
		Result  struct {
			Class int `json:"class"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Schema != "Heart Disease Prediction" || report.Verdict != "Heart Disease Positive" || report.Result.Class != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestPredictCommand_UndeclaredChoice(t *testing.T) {
	out, err := run(t, "predict", "heart_disease_prediction",
		"--set", "age=63", "--set", "cp=7", "--set", "trestbps=145", "--set", "chol=233")
	if err == nil {
		t.Fatalf("expected an error, got output %q", out)
	}
	if errors.Is(err, errRejected) {
		t.Fatalf("undeclared option must fail before evaluation, got %v", err)
	}
	if want := `feature "cp": expected one of 0, 1, 2, 3`; err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
	if strings.Contains(out, "Prediction Result") {
		t.Fatalf("no verdict expected, got %q", out)
	}
}

func TestPredictCommand_UnknownTask(t *testing.T) {
	if _, err := run(t, "predict", "nope"); err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func TestOpenAPICommand(t *testing.T) {
	out, err := run(t, "openapi")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	if !strings.Contains(out, `"predict_breast_cancer_prediction"`) {
		t.Fatalf("document missing predict operation:\n%s", out)
	}
}
