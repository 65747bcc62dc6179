package tui

import "io"

// Theme captures message prefixes the surface applies when printing.
type Theme struct {
	SuccessPrefix string
	ErrorPrefix   string
	HelpPrefix    string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	SuccessPrefix: "✔ ",
	ErrorPrefix:   "✘ ",
}

// Option configures the terminal surface.
type Option func(*Surface)

// WithPromptDriver overrides the prompt driver used by the surface.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Surface) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput directs messages of the default survey driver to w.
func WithOutput(w io.Writer) Option {
	return func(s *Surface) {
		if w != nil {
			s.out = w
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Surface) {
		s.theme = theme
	}
}

// WithAutoSubmit skips the confirmation prompt and always submits.
func WithAutoSubmit() Option {
	return func(s *Surface) {
		s.autoSubmit = true
	}
}
