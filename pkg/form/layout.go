package form

import "github.com/goliatone/go-formpredict/pkg/schema"

// Key identifies a rendered widget across schemas sharing one process.
type Key struct {
	ModelRef string
	Label    string
}

// String renders the key as "<model_ref>/<label>".
func (k Key) String() string {
	return k.ModelRef + "/" + k.Label
}

// Cell is a zero-based grid position.
type Cell struct {
	Row    int
	Column int
}

// Field is one widget request handed to a Surface.
type Field struct {
	Key     Key
	Spec    schema.FeatureSpec
	Cell    Cell
	Columns int
}

// Layout places the schema's features on its grid, filling rows left to
// right in schema order and wrapping every ColumnsPerRow fields.
func Layout(s schema.TaskSchema) []Field {
	columns := s.ColumnsPerRow
	if columns < 1 {
		columns = 1
	}
	out := make([]Field, len(s.Features))
	for i, feature := range s.Features {
		out[i] = Field{
			Key:     Key{ModelRef: s.ModelRef, Label: feature.Label},
			Spec:    feature,
			Cell:    Cell{Row: i / columns, Column: i % columns},
			Columns: columns,
		}
	}
	return out
}

// Rows groups the layout into grid rows.
func Rows(fields []Field) [][]Field {
	var rows [][]Field
	for _, field := range fields {
		for len(rows) <= field.Cell.Row {
			rows = append(rows, nil)
		}
		rows[field.Cell.Row] = append(rows[field.Cell.Row], field)
	}
	return rows
}
