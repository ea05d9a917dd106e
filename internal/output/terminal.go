package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion/recap"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	roundStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5C07B"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	failStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#E06C75"))
)

// Terminal renders a live discussion as a group chat.
type Terminal struct {
	w        io.Writer
	personas map[string]persona.Persona
}

// NewTerminal creates a renderer writing to w. personas supply the display
// name, emoji and colour of each speaker.
func NewTerminal(w io.Writer, personas []persona.Persona) *Terminal {
	byID := make(map[string]persona.Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}
	return &Terminal{w: w, personas: byID}
}

// PrintHeader prints the topic and the participant list.
func (t *Terminal) PrintHeader(topic string, personas []persona.Persona, rounds int) {
	fmt.Fprintln(t.w, titleStyle.Render("Group Chat Discussion"))
	fmt.Fprintf(t.w, "\n%s %s\n\n", sectionStyle.Render("Topic:"), topic)
	fmt.Fprintln(t.w, sectionStyle.Render("Participants:"))
	for _, p := range personas {
		fmt.Fprintf(t.w, "  %s %s %s\n", p.Emoji, t.nameStyle(p).Render(p.Name), dimStyle.Render("("+p.Backend.String()+")"))
	}
	fmt.Fprintf(t.w, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d rounds", rounds)))
}

// PrintRound prints a round banner.
func (t *Terminal) PrintRound(round int) {
	fmt.Fprintf(t.w, "\n%s\n\n", roundStyle.Render(fmt.Sprintf("── Round %d ──", round)))
}

// PrintUtterance prints one chat message. Failed turns are shown as such.
func (t *Terminal) PrintUtterance(u discussion.Utterance) {
	p, ok := t.personas[u.Persona]
	if !ok {
		p = persona.Persona{ID: u.Persona, Name: u.Speaker}
	}
	header := t.nameStyle(p).Render(strings.TrimSpace(p.Emoji + " " + p.Name))
	if u.Failed() {
		fmt.Fprintf(t.w, "%s\n%s\n\n", header, failStyle.Render(fmt.Sprintf("(no response: %s)", u.Failure)))
		return
	}
	fmt.Fprintf(t.w, "%s\n%s\n\n", header, u.Text)
}

// PrintInterrupted reports a run stopped before its last round.
func (t *Terminal) PrintInterrupted(rounds int) {
	fmt.Fprintln(t.w, failStyle.Render(fmt.Sprintf("\nDiscussion interrupted after %d round(s).", rounds)))
}

// PrintSection prints a titled block such as the summary.
func (t *Terminal) PrintSection(title, body string) {
	fmt.Fprintf(t.w, "\n%s\n\n%s\n", sectionStyle.Render(title), body)
}

// PrintRecap prints the summary and takeaway sections that were produced.
func (t *Terminal) PrintRecap(r recap.Recap) {
	if r.Summary != "" {
		t.PrintSection("Discussion Summary", r.Summary)
	}
	if r.Takeaway != "" {
		t.PrintSection("Final Synthesized Takeaway", r.Takeaway)
	}
}

// PrintFailures lists turns a backend failed to answer, if any. Turns cut
// short by an interrupt are left out.
func (t *Terminal) PrintFailures(turns []discussion.Utterance) {
	var failed []discussion.Utterance
	for _, u := range turns {
		if u.Failed() && u.Failure != discussion.FailureAborted {
			failed = append(failed, u)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(t.w, failStyle.Render(fmt.Sprintf("\n%d turn(s) got no response:", len(failed))))
	for _, u := range failed {
		fmt.Fprintf(t.w, "  round %d %s: %s\n", u.Round, u.Speaker, u.Error)
	}
}

func (t *Terminal) nameStyle(p persona.Persona) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if p.Color != "" {
		s = s.Foreground(lipgloss.Color(p.Color))
	}
	return s
}
