package web

import "strings"

// attachFieldErrors moves every error message prefixed with a widget label
// ("<label>: ...") onto that widget. Messages matching no widget stay on the
// page as form-level errors so nothing is lost. Duplicates are dropped while
// preserving order.
func attachFieldErrors(page *Page) {
	messages := normalizeMessages(page.Errors)
	if len(messages) == 0 {
		page.Errors = nil
		return
	}

	index := make(map[string][2]int)
	for r, row := range page.Rows {
		for c, w := range row {
			index[w.Label] = [2]int{r, c}
		}
	}

	var formLevel []string
	for _, msg := range messages {
		label, _, ok := strings.Cut(msg, ": ")
		pos, known := index[label]
		if !ok || !known {
			formLevel = append(formLevel, msg)
			continue
		}
		w := &page.Rows[pos[0]][pos[1]]
		w.Errors = append(w.Errors, msg)
	}
	page.Errors = formLevel
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
