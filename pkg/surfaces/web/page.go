package web

// MenuItem is one entry of the task selection menu.
type MenuItem struct {
	Name   string `json:"name"`
	Icon   string `json:"icon,omitempty"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// SelectOption is one choice of a select widget.
type SelectOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Widget is a rendered input bound to one feature.
type Widget struct {
	Key     string         `json:"key"`
	Name    string         `json:"name"`
	Label   string         `json:"label"`
	Kind    string         `json:"kind"`
	Value   string         `json:"value,omitempty"`
	Help    string         `json:"help,omitempty"`
	Options []SelectOption `json:"options,omitempty"`
	Errors  []string       `json:"errors,omitempty"`
	Row     int            `json:"row"`
	Column  int            `json:"column"`
}

// Page is the view model handed to the page template.
type Page struct {
	Title       string       `json:"title"`
	Heading     string       `json:"heading"`
	Task        string       `json:"task"`
	Menu        []MenuItem   `json:"menu"`
	Action      string       `json:"action"`
	HelpHTML    string       `json:"helpHtml,omitempty"`
	Rows        [][]Widget   `json:"rows"`
	Columns     int          `json:"columns"`
	SubmitLabel string       `json:"submitLabel"`
	Successes   []string     `json:"successes,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
	Theme       ThemeContext `json:"theme"`
	Stylesheet  string       `json:"stylesheet,omitempty"`
}

func (p *Page) place(w Widget) {
	for len(p.Rows) <= w.Row {
		p.Rows = append(p.Rows, nil)
	}
	p.Rows[w.Row] = append(p.Rows[w.Row], w)
}
