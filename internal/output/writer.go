package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion/recap"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

const maxSlugLen = 50

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a topic into a lowercase, dash separated directory name.
func GenerateSlug(topic string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(topic), "-"), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "discussion"
	}
	return slug
}

// CreateOutputDir creates <base>/<slug>-<timestamp> and returns its path.
func CreateOutputDir(base, slug string) (string, error) {
	dir := filepath.Join(base, slug+"-"+time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("output: creating %s: %w", dir, err)
	}
	return dir, nil
}

// Participant is the exported view of a persona.
type Participant struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Emoji       string  `json:"emoji" yaml:"emoji"`
	Backend     string  `json:"backend" yaml:"backend"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Document is the saved form of a finished discussion.
type Document struct {
	ID           string                 `json:"id" yaml:"id"`
	Topic        string                 `json:"topic" yaml:"topic"`
	Rounds       int                    `json:"rounds" yaml:"rounds"`
	Participants []Participant          `json:"participants" yaml:"participants"`
	Utterances   []discussion.Utterance `json:"utterances" yaml:"utterances"`
	Recap        *recap.Recap           `json:"recap,omitempty" yaml:"recap,omitempty"`
}

// NewDocument builds the exported form of t. rc may be nil.
func NewDocument(t *discussion.Transcript, personas []persona.Persona, rc *recap.Recap) *Document {
	doc := &Document{
		ID:         t.ID(),
		Topic:      t.Topic(),
		Rounds:     t.Rounds(),
		Utterances: t.Utterances(),
		Recap:      rc,
	}
	for _, p := range personas {
		doc.Participants = append(doc.Participants, Participant{
			ID:          p.ID,
			Name:        p.Name,
			Emoji:       p.Emoji,
			Backend:     p.Backend.String(),
			Temperature: p.Temperature,
		})
	}
	return doc
}

// Writer saves discussion artifacts into one directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer for dir. The directory must exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteJSON writes transcript.json.
func (w *Writer) WriteJSON(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("output: encoding json: %w", err)
	}
	return w.write("transcript.json", data)
}

// WriteYAML writes transcript.yaml.
func (w *Writer) WriteYAML(doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("output: encoding yaml: %w", err)
	}
	return w.write("transcript.yaml", data)
}

// WriteMarkdown writes transcript.md, grouped by round.
func (w *Writer) WriteMarkdown(doc *Document) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Topic)
	if len(doc.Participants) > 0 {
		sb.WriteString("## Participants\n\n")
		for _, p := range doc.Participants {
			fmt.Fprintf(&sb, "- %s **%s** (%s)\n", p.Emoji, p.Name, p.Backend)
		}
		sb.WriteString("\n")
	}

	round := 0
	for _, u := range doc.Utterances {
		if u.Round != round {
			round = u.Round
			fmt.Fprintf(&sb, "## Round %d\n\n", round)
		}
		if u.Failed() {
			fmt.Fprintf(&sb, "**%s**: _no response (%s)_\n\n", u.Speaker, u.Failure)
			continue
		}
		fmt.Fprintf(&sb, "**%s**: %s\n\n", u.Speaker, u.Text)
	}

	if doc.Recap != nil {
		if doc.Recap.Summary != "" {
			fmt.Fprintf(&sb, "## Summary\n\n%s\n\n", doc.Recap.Summary)
		}
		if doc.Recap.Takeaway != "" {
			fmt.Fprintf(&sb, "## Takeaway\n\n%s\n", doc.Recap.Takeaway)
		}
	}
	return w.write("transcript.md", []byte(sb.String()))
}

// Log appends a timestamped line to discussion.log right away so the log
// survives an interrupted run.
func (w *Writer) Log(msg string) {
	f, err := os.OpenFile(w.logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), msg)
}

// WriteLog makes sure discussion.log exists, even when nothing was logged.
func (w *Writer) WriteLog() error {
	f, err := os.OpenFile(w.logPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("output: writing discussion.log: %w", err)
	}
	return f.Close()
}

func (w *Writer) logPath() string { return filepath.Join(w.dir, "discussion.log") }

func (w *Writer) write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0644); err != nil {
		return fmt.Errorf("output: writing %s: %w", name, err)
	}
	return nil
}
