package server

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-formpredict/pkg/controller"
	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

type featureView struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Kind    schema.Kind `json:"kind"`
	Options []float64   `json:"options,omitempty"`
	Default *float64    `json:"default,omitempty"`
	Help    string      `json:"help,omitempty"`
}

type taskView struct {
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	ModelRef      string        `json:"modelRef"`
	ColumnsPerRow int           `json:"columnsPerRow"`
	SubmitLabel   string        `json:"submitLabel"`
	Features      []featureView `json:"features"`
}

func newTaskView(s schema.TaskSchema) taskView {
	view := taskView{
		Name:          s.Name,
		Slug:          schema.Slug(s.Name),
		Title:         s.Heading(),
		ModelRef:      s.ModelRef,
		ColumnsPerRow: s.ColumnsPerRow,
		SubmitLabel:   s.ButtonLabel(),
		Features:      make([]featureView, 0, len(s.Features)),
	}
	for _, f := range s.Features {
		fv := featureView{
			Name:    f.Name,
			Label:   f.Label,
			Kind:    f.Kind,
			Options: f.Options,
			Help:    f.Help,
		}
		if def, ok := f.DefaultOption(); ok {
			fv.Default = &def
		}
		view.Features = append(view.Features, fv)
	}
	return view
}

type predictRequest struct {
	Features map[string]any `json:"features"`
}

type predictResponse struct {
	CycleID     uuid.UUID              `json:"cycleId"`
	Task        string                 `json:"task"`
	States      []controller.State     `json:"states"`
	Vector      []float64              `json:"vector,omitempty"`
	Verdict     string                 `json:"verdict,omitempty"`
	Class       *int                   `json:"class,omitempty"`
	Probability *inference.Probability `json:"probability,omitempty"`
	Message     string                 `json:"message"`
	Errors      []string               `json:"errors,omitempty"`
}

func newPredictResponse(report controller.Report) predictResponse {
	out := predictResponse{
		CycleID: report.CycleID,
		Task:    report.Schema,
		States:  report.States,
		Vector:  report.Outcome.Vector,
		Verdict: report.Verdict,
		Message: report.Message,
		Errors:  report.Errors,
	}
	if report.Result != nil {
		class := report.Result.Class
		out.Class = &class
		out.Probability = report.Result.Probability
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}
