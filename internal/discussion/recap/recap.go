// Package recap writes the post-discussion summary and takeaway.
package recap

import (
	"context"
	"fmt"
	"strings"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
)

// Temperature is used for both recap calls.
const Temperature = 0.3

const summaryPrompt = `You are summarizing a group discussion. Based on the transcript, provide:

1. **Key Points by Participant** - What each person contributed
2. **Main Disagreements** - Where opinions differed
3. **Areas of Agreement** - Where opinions overlapped

Keep it concise and well-organized. Use bullet points.`

const takeawayPrompt = `You are providing a final balanced takeaway from a group discussion.

Write a calm, neutral conclusion that:
- Combines insights from all perspectives
- Does NOT claim there is one "correct answer"
- Clearly states uncertainties and trade-offs
- Is helpful and actionable where possible

Keep it to 2-3 short paragraphs.`

// Recap is the optional closing section of a discussion.
type Recap struct {
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Takeaway string `json:"takeaway,omitempty" yaml:"takeaway,omitempty"`
}

// Writer asks a single generator for the recap sections.
type Writer struct {
	gen backend.Generator
}

// New creates a Writer backed by gen.
func New(gen backend.Generator) *Writer {
	return &Writer{gen: gen}
}

// Summary returns key points per participant, disagreements and agreements.
func (w *Writer) Summary(ctx context.Context, t *discussion.Transcript) (string, error) {
	return w.ask(ctx, summaryPrompt, t, "Please summarize this discussion.")
}

// Takeaway returns a neutral closing conclusion.
func (w *Writer) Takeaway(ctx context.Context, t *discussion.Transcript) (string, error) {
	return w.ask(ctx, takeawayPrompt, t, "Provide a final balanced takeaway.")
}

// Write produces both sections. A failed summary does not prevent the
// takeaway; the first error is returned alongside whatever succeeded.
func (w *Writer) Write(ctx context.Context, t *discussion.Transcript) (Recap, error) {
	var r Recap
	summary, sumErr := w.Summary(ctx, t)
	if sumErr == nil {
		r.Summary = summary
	}
	takeaway, err := w.Takeaway(ctx, t)
	if err == nil {
		r.Takeaway = takeaway
	}
	if sumErr != nil {
		return r, sumErr
	}
	return r, err
}

func (w *Writer) ask(ctx context.Context, system string, t *discussion.Transcript, cue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("recap: %w", err)
	}
	req := backend.Request{
		System: system,
		Messages: []backend.Message{{
			Role:    "user",
			Content: fmt.Sprintf("Discussion transcript:\n\n%s\n%s", RenderTranscript(t), cue),
		}},
		Temperature: Temperature,
		MaxTokens:   discussion.MaxTokens,
	}
	out, err := w.gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("recap: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RenderTranscript formats t as a plain chat log. Failed turns are omitted.
func RenderTranscript(t *discussion.Transcript) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[User]\n%s\n\n", t.Topic())
	for _, u := range t.Utterances() {
		if u.Failed() {
			continue
		}
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", u.Speaker, u.Text)
	}
	return sb.String()
}
