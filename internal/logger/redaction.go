package logger

import (
	"io"
	"regexp"
)

// Redactor masks provider credentials in log output.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor with patterns for the supported providers.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*regexp.Regexp{
			// OpenAI, OpenRouter, Anthropic
			regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),
			// Groq
			regexp.MustCompile(`gsk_[a-zA-Z0-9]{20,}`),
			// HuggingFace
			regexp.MustCompile(`hf_[a-zA-Z0-9]{20,}`),
			// Google
			regexp.MustCompile(`AIza[0-9A-Za-z_-]{30,}`),
			regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),
			// api_key=..., "api_key":"..." and colored console fields. Only the
			// value is replaced; quotes and escapes around it are kept.
			regexp.MustCompile(`(?i)(?P<keep>api[_-]?key(?:\\?"|\x1b\[[0-9;]*m|[\s:=])+)[^\s"\\,}\x1b]+`),
		},
	}
}

// AddPattern adds a custom redaction pattern.
func (r *Redactor) AddPattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.patterns = append(r.patterns, re)
	return nil
}

// Redact replaces every match with [REDACTED]. A group named keep survives
// the replacement.
func (r *Redactor) Redact(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, "${keep}[REDACTED]")
	}
	return s
}

// Wrap returns a writer that redacts before writing to w.
func (r *Redactor) Wrap(w io.Writer) io.Writer {
	return &redactingWriter{w: w, r: r}
}

type redactingWriter struct {
	w io.Writer
	r *Redactor
}

// Write reports len(p) on success so callers do not see a short write when
// redaction changes the length.
func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := w.w.Write([]byte(w.r.Redact(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
