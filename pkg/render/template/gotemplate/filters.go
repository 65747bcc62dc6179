package gotemplate

import (
	"strconv"

	"github.com/flosch/pongo2/v6"
)

// registerFilters installs the process wide pongo2 filters page templates
// rely on.
func registerFilters() {
	if !pongo2.FilterExists("option") {
		_ = pongo2.RegisterFilter("option", filterOption)
	}
}

// filterOption renders a number without trailing zeros, the way choice
// options and grid cells are labelled ("2", "0.5").
func filterOption(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.IsNumber() {
		return pongo2.AsValue(in.String()), nil
	}
	return pongo2.AsValue(strconv.FormatFloat(in.Float(), 'f', -1, 64)), nil
}
