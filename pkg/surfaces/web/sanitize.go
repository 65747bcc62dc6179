package web

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// HelpHTML sanitises help text declared in task files and keeps its line
// breaks.
func HelpHTML(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
	return strings.ReplaceAll(cleaned, "\n", "<br>\n")
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br")
		helpPolicy = policy
	})
	return helpPolicy
}
