package template

import (
	"io"
)

// TemplateRenderer renders a named page template. Struct data is exposed to
// templates through its JSON tags.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
