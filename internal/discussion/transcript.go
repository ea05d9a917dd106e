package discussion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateTurn is returned when a persona already spoke in a round.
	ErrDuplicateTurn = errors.New("duplicate turn")
	// ErrOutOfOrder is returned when an utterance would break (round, seq) order.
	ErrOutOfOrder = errors.New("utterance out of order")
)

type turnKey struct {
	persona string
	round   int
}

// Transcript is the append-only record of one discussion.
type Transcript struct {
	id         string
	topic      string
	utterances []Utterance
	seen       map[turnKey]struct{}
}

// NewTranscript creates an empty transcript for topic.
func NewTranscript(topic string) *Transcript {
	return &Transcript{
		id:    uuid.NewString(),
		topic: topic,
		seen:  make(map[turnKey]struct{}),
	}
}

// ID identifies the discussion run.
func (t *Transcript) ID() string { return t.id }

// Topic returns the originating topic text.
func (t *Transcript) Topic() string { return t.topic }

// Len returns the number of utterances.
func (t *Transcript) Len() int { return len(t.utterances) }

// Rounds returns the highest round recorded.
func (t *Transcript) Rounds() int {
	if len(t.utterances) == 0 {
		return 0
	}
	return t.utterances[len(t.utterances)-1].Round
}

// Append adds u. It rejects a second utterance for the same (persona, round)
// and any utterance that does not strictly follow the last one in
// (round, seq) order.
func (t *Transcript) Append(u Utterance) error {
	key := turnKey{persona: u.Persona, round: u.Round}
	if _, ok := t.seen[key]; ok {
		return fmt.Errorf("transcript: %w: %s in round %d", ErrDuplicateTurn, u.Persona, u.Round)
	}
	if n := len(t.utterances); n > 0 {
		last := t.utterances[n-1]
		if u.Round < last.Round || (u.Round == last.Round && u.Seq <= last.Seq) {
			return fmt.Errorf("transcript: %w: (%d,%d) after (%d,%d)", ErrOutOfOrder, u.Round, u.Seq, last.Round, last.Seq)
		}
	}
	t.seen[key] = struct{}{}
	t.utterances = append(t.utterances, u)
	return nil
}

// Utterances returns the utterances in order. The slice is a copy.
func (t *Transcript) Utterances() []Utterance {
	out := make([]Utterance, len(t.utterances))
	copy(out, t.utterances)
	return out
}

// Failures returns the placeholder utterances of failed turns.
func (t *Transcript) Failures() []Utterance {
	var out []Utterance
	for _, u := range t.utterances {
		if u.Failed() {
			out = append(out, u)
		}
	}
	return out
}
