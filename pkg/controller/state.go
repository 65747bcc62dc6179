package controller

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-formpredict/pkg/inference"
	"github.com/goliatone/go-formpredict/pkg/validation"
)

// State is a render cycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRendered  State = "rendered"
	StateSubmitted State = "submitted"
	StateValidated State = "validated"
	StatePredicted State = "predicted"
)

// Report describes one finished render cycle.
type Report struct {
	CycleID uuid.UUID `json:"cycleId"`
	Schema  string    `json:"schema"`
	// States lists every state entered, starting and ending with Idle.
	States  []State            `json:"states"`
	Outcome validation.Outcome `json:"outcome"`
	// Verdict is the outcome label shown to the user.
	Verdict string            `json:"verdict,omitempty"`
	Result  *inference.Result `json:"result,omitempty"`
	// Errors holds the field error messages of a rejected submission.
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
	// Failure is the unknown schema, model or inference error, if any.
	Failure error `json:"-"`
}

// Submitted reports whether the cycle got past rendering.
func (r Report) Submitted() bool {
	return r.reached(StateSubmitted)
}

// Predicted reports whether a verdict was produced.
func (r Report) Predicted() bool {
	return r.Result != nil
}

// Final returns the last state entered.
func (r Report) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

func (r Report) reached(state State) bool {
	for _, s := range r.States {
		if s == state {
			return true
		}
	}
	return false
}

func (r *Report) enter(state State) {
	r.States = append(r.States, state)
}
