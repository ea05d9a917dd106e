package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion/recap"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

func TestGenerateSlug(t *testing.T) {
	got := GenerateSlug("AI and Machine Learning!")
	want := "ai-and-machine-learning"
	if got != want {
		t.Errorf("GenerateSlug() = %q, want %q", got, want)
	}
}

func TestGenerateSlugMaxLength(t *testing.T) {
	long := strings.Repeat("word ", 20) // 100 chars
	got := GenerateSlug(long)
	if len(got) > 50 {
		t.Errorf("GenerateSlug() length = %d, want <= 50", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("GenerateSlug() = %q should not end with a dash", got)
	}
}

func TestGenerateSlugEmpty(t *testing.T) {
	if got := GenerateSlug("?!"); got != "discussion" {
		t.Errorf("GenerateSlug() = %q, want %q", got, "discussion")
	}
}

func TestCreateOutputDir(t *testing.T) {
	base := t.TempDir()
	slug := "test-topic"

	dir, err := CreateOutputDir(base, slug)
	if err != nil {
		t.Fatalf("CreateOutputDir() error = %v", err)
	}

	pattern := regexp.MustCompile(`test-topic-\d{8}-\d{6}$`)
	if !pattern.MatchString(filepath.Base(dir)) {
		t.Errorf("dir base %q does not match expected pattern", filepath.Base(dir))
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("path is not a directory")
	}
}

func samplePersonas() []persona.Persona {
	ps := persona.Builtin()
	for i := range ps {
		ps[i].Backend = backend.Spec{Kind: backend.KindOllama, Model: "llama3.2"}
	}
	return ps
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	tr := discussion.NewTranscript("AI Regulation")
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, u := range []discussion.Utterance{
		{Persona: persona.Logical, Speaker: "Logical Thinker", Round: 1, Seq: 0, Text: "We need regulation", Time: at},
		{Persona: persona.Creative, Speaker: "Creative Thinker", Round: 1, Seq: 1, Failure: discussion.FailureUnavailable, Error: "down", Time: at},
		{Persona: persona.Logical, Speaker: "Logical Thinker", Round: 2, Seq: 0, Text: "I agree", Time: at},
	} {
		if err := tr.Append(u); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return NewDocument(tr, samplePersonas(), &recap.Recap{Summary: "short summary", Takeaway: "balanced"})
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteJSON(sampleDocument(t)); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transcript.json"))
	if err != nil {
		t.Fatalf("reading transcript.json: %v", err)
	}

	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if got.Topic != "AI Regulation" {
		t.Errorf("Topic = %q, want %q", got.Topic, "AI Regulation")
	}
	if len(got.Utterances) != 3 {
		t.Errorf("Utterances length = %d, want 3", len(got.Utterances))
	}
	if !got.Utterances[1].Failed() {
		t.Error("failed turn should round-trip as failed")
	}
	if got.Rounds != 2 {
		t.Errorf("Rounds = %d, want 2", got.Rounds)
	}
	if strings.Contains(string(data), "api") {
		t.Error("transcript.json must not contain credentials")
	}
}

func TestWriteYAML(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteYAML(sampleDocument(t)); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "transcript.yaml"))
	if err != nil {
		t.Fatalf("reading transcript.yaml: %v", err)
	}

	var got Document
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if len(got.Participants) != 5 {
		t.Errorf("Participants length = %d, want 5", len(got.Participants))
	}
	if got.Recap == nil || got.Recap.Takeaway != "balanced" {
		t.Errorf("Recap = %+v, want takeaway", got.Recap)
	}
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	if err := w.WriteMarkdown(sampleDocument(t)); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transcript.md"))
	if err != nil {
		t.Fatalf("reading transcript.md: %v", err)
	}

	content := string(data)
	checks := []string{"AI Regulation", "Logical Thinker", "Round 1", "Round 2", "no response (unavailable)", "## Summary", "balanced"}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Errorf("transcript.md does not contain %q", check)
		}
	}
}

func TestWriteLog(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	w.Log("round 1 started")
	w.Log("logical responded: hello world")

	if err := w.WriteLog(); err != nil {
		t.Fatalf("WriteLog() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "discussion.log"))
	if err != nil {
		t.Fatalf("reading discussion.log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "round 1 started") {
		t.Error("discussion.log missing log entry")
	}
	if !strings.Contains(content, "logical responded") {
		t.Error("discussion.log missing persona log entry")
	}
}

func TestLogWritesImmediatelyToFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	w.Log("first entry")

	// File should exist and contain the entry immediately (before WriteLog)
	data, err := os.ReadFile(filepath.Join(dir, "discussion.log"))
	if err != nil {
		t.Fatalf("discussion.log should exist after Log(): %v", err)
	}
	if !strings.Contains(string(data), "first entry") {
		t.Error("discussion.log should contain entry immediately after Log()")
	}
}

func TestWriteLogWithoutEntries(t *testing.T) {
	dir := t.TempDir()
	if err := NewWriter(dir).WriteLog(); err != nil {
		t.Fatalf("WriteLog() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "discussion.log")); err != nil {
		t.Errorf("discussion.log should exist: %v", err)
	}
}

func TestPrintHeaderListsParticipants(t *testing.T) {
	var buf bytes.Buffer
	ps := samplePersonas()
	NewTerminal(&buf, ps).PrintHeader("remote work", ps, 3)

	out := buf.String()
	for _, want := range []string{"remote work", "Logical Thinker", "Neutral Synthesizer", "ollama/llama3.2", "3 rounds"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestPrintRound(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, nil).PrintRound(2)
	if !strings.Contains(buf.String(), "Round 2") {
		t.Error("PrintRound should show the round number")
	}
}

func TestPrintUtteranceShowsFullContent(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("a", 500)
	NewTerminal(&buf, samplePersonas()).PrintUtterance(discussion.Utterance{
		Persona: persona.Creative, Speaker: "Creative Thinker", Round: 1, Text: long,
	})

	out := buf.String()
	if strings.Contains(out, "...") {
		t.Error("PrintUtterance should not truncate content")
	}
	if !strings.Contains(out, long) {
		t.Error("PrintUtterance should print full content")
	}
	if !strings.Contains(out, "Creative Thinker") {
		t.Error("PrintUtterance should name the speaker")
	}
}

func TestPrintUtteranceFailed(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, samplePersonas()).PrintUtterance(discussion.Utterance{
		Persona: persona.Skeptical, Speaker: "Skeptical Thinker", Failure: discussion.FailureRejected,
	})
	if !strings.Contains(buf.String(), "no response: rejected") {
		t.Errorf("failed turn should be visible, got %q", buf.String())
	}
}

func TestPrintUtteranceUnknownPersona(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, nil).PrintUtterance(discussion.Utterance{Persona: "guest", Speaker: "Guest", Text: "hi"})
	if !strings.Contains(buf.String(), "Guest") {
		t.Error("unknown persona should fall back to the speaker label")
	}
}

func TestPrintRecap(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, nil).PrintRecap(recap.Recap{Takeaway: "be kind"})
	out := buf.String()
	if strings.Contains(out, "Discussion Summary") {
		t.Error("empty summary should be skipped")
	}
	if !strings.Contains(out, "Final Synthesized Takeaway") || !strings.Contains(out, "be kind") {
		t.Error("takeaway should be printed")
	}
}

func TestPrintFailures(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	term.PrintFailures(nil)
	if buf.Len() != 0 {
		t.Error("no output expected without failures")
	}
	term.PrintFailures([]discussion.Utterance{
		{Round: 2, Speaker: "Practical Thinker", Failure: discussion.FailureRejected, Error: "groq: backend rejected request (status 401)"},
		{Round: 2, Speaker: "Synthesizer", Failure: discussion.FailureAborted, Error: "context canceled"},
	})
	out := buf.String()
	if !strings.Contains(out, "status 401") {
		t.Error("failure detail should be printed")
	}
	if !strings.Contains(out, "1 turn(s)") || strings.Contains(out, "context canceled") {
		t.Errorf("aborted turns should not be listed as failures:\n%s", out)
	}
}

func TestPrintFailuresOnlyAborted(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	term.PrintFailures([]discussion.Utterance{{Round: 1, Speaker: "Synthesizer", Failure: discussion.FailureAborted, Error: "context canceled"}})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	term.PrintInterrupted(1)
	if !strings.Contains(buf.String(), "Discussion interrupted after 1 round(s)") {
		t.Errorf("unexpected interrupt notice %q", buf.String())
	}
}
