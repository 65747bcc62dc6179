package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formpredict/pkg/form"
)

// Question is one form cell asked in the terminal.
type Question struct {
	Cell  form.Cell
	Label string
	Help  string
	// Options lists the choices of a choice feature; empty for free text.
	Options []string
	Default int
}

// Title renders the question as "[row.column] label" with one-based grid
// positions, so the form layout stays visible in a linear prompt.
func (q Question) Title() string {
	return fmt.Sprintf("[%d.%d] %s", q.Cell.Row+1, q.Cell.Column+1, q.Label)
}

// PromptDriver performs the terminal I/O of a form cycle. Swap it to test
// the surface without a terminal.
type PromptDriver interface {
	// Ask reads the raw text of a free-text feature.
	Ask(ctx context.Context, q Question) (string, error)
	// Pick returns the index of the chosen option of a choice feature.
	Pick(ctx context.Context, q Question) (int, error)
	// Confirm asks a yes/no question defaulting to yes.
	Confirm(ctx context.Context, message string) (bool, error)
	// Menu returns the index of the chosen entry.
	Menu(ctx context.Context, title string, entries []string) (int, error)
	// Print writes one message line.
	Print(ctx context.Context, line string) error
}

type surveyDriver struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyDriver returns the interactive driver. Messages go to out
// (stdout when nil); prompts are drawn on out too when it is a terminal
// file.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	d := &surveyDriver{out: out}
	if fw, ok := out.(terminal.FileWriter); ok {
		d.opts = append(d.opts, survey.WithStdio(os.Stdin, fw, os.Stderr))
	}
	return d
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var raw string
	prompt := &survey.Input{Message: q.Title(), Help: q.Help}
	if err := survey.AskOne(prompt, &raw, d.opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return raw, nil
}

func (d *surveyDriver) Pick(ctx context.Context, q Question) (int, error) {
	prompt := &survey.Select{Message: q.Title(), Options: q.Options, Help: q.Help}
	if q.Default >= 0 && q.Default < len(q.Options) {
		prompt.Default = q.Options[q.Default]
	}
	return d.choose(ctx, prompt)
}

func (d *surveyDriver) Menu(ctx context.Context, title string, entries []string) (int, error) {
	return d.choose(ctx, &survey.Select{Message: title, Options: entries, PageSize: len(entries)})
}

func (d *surveyDriver) choose(ctx context.Context, prompt *survey.Select) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	var answer core.OptionAnswer
	if err := survey.AskOne(prompt, &answer, d.opts...); err != nil {
		return -1, translateSurveyErr(err)
	}
	return answer.Index, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok := true
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: true}, &ok, d.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return ok, nil
}

func (d *surveyDriver) Print(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, line)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
