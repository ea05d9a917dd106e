package discussion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// DefaultRounds is used when the driver does not choose a round count.
const DefaultRounds = 3

var (
	// ErrConfigInvalid reports a discussion that cannot start. No round is run.
	ErrConfigInvalid = errors.New("invalid discussion config")
	// ErrAborted reports a run stopped by the driver at a round boundary.
	ErrAborted = errors.New("discussion aborted")
)

// Config is the immutable input of one discussion run.
type Config struct {
	Topic       string
	Rounds      int
	Synthesizer bool
}

// Validate reports ErrConfigInvalid for unusable configs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("discussion: %w: topic is empty", ErrConfigInvalid)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("discussion: %w: rounds must be >= 1, got %d", ErrConfigInvalid, c.Rounds)
	}
	return nil
}

// State is a Turn Scheduler state.
type State int

const (
	Idle State = iota
	RoundInProgress
	RoundComplete
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RoundInProgress:
		return "round-in-progress"
	case RoundComplete:
		return "round-complete"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Failure classifies a turn whose backend call did not produce text.
type Failure string

const (
	FailureUnavailable Failure = "unavailable"
	FailureRejected    Failure = "rejected"
	FailureError       Failure = "error"
	// FailureAborted marks a turn cut short because the run was cancelled.
	// The backend is not at fault.
	FailureAborted Failure = "aborted"
)

func classify(err error) Failure {
	switch {
	case errors.Is(err, backend.ErrRejected):
		return FailureRejected
	case errors.Is(err, backend.ErrUnavailable):
		return FailureUnavailable
	}
	return FailureError
}

// Utterance is one persona's contribution to one round. A failed turn is kept
// as a placeholder with Failure set and no Text.
type Utterance struct {
	Persona string    `json:"persona" yaml:"persona"`
	Speaker string    `json:"speaker" yaml:"speaker"`
	Round   int       `json:"round" yaml:"round"`
	Seq     int       `json:"seq" yaml:"seq"`
	Text    string    `json:"text,omitempty" yaml:"text,omitempty"`
	Time    time.Time `json:"time" yaml:"time"`
	Failure Failure   `json:"failure,omitempty" yaml:"failure,omitempty"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the utterance is a placeholder for a failed turn.
func (u Utterance) Failed() bool { return u.Failure != "" }

// Resolver binds a persona to the Generator that will speak for it.
type Resolver interface {
	Resolve(p persona.Persona) (backend.Generator, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(p persona.Persona) (backend.Generator, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(p persona.Persona) (backend.Generator, error) { return f(p) }

// SpecResolver resolves each persona through its BackendSpec in pool.
func SpecResolver(pool *backend.Pool) Resolver {
	return ResolverFunc(func(p persona.Persona) (backend.Generator, error) {
		return pool.Generator(p.Backend)
	})
}
