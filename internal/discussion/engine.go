package discussion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

type speaker struct {
	persona persona.Persona
	gen     backend.Generator
}

// Engine is the turn scheduler of one discussion run.
type Engine struct {
	cfg        Config
	speakers   []speaker
	transcript *Transcript
	state      State
	round      int
	log        zerolog.Logger
	now        func() time.Time
	OnTurn     func(Utterance)
	OnState    func(state State, round int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the timestamp source of utterances.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine validates cfg, orders the active personas and binds each to its
// generator. Any failure here aborts before a transcript exists: config
// problems wrap ErrConfigInvalid, registry gaps wrap persona.ErrUnknownPersona.
func NewEngine(cfg Config, registry *persona.Registry, resolver Resolver, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	active, err := registry.Active(cfg.Synthesizer)
	if err != nil {
		return nil, fmt.Errorf("discussion: %w", err)
	}

	speakers := make([]speaker, 0, len(active))
	for _, p := range active {
		gen, err := resolver.Resolve(p)
		if err != nil {
			return nil, fmt.Errorf("discussion: %w: persona %s: %v", ErrConfigInvalid, p.ID, err)
		}
		if gen == nil {
			return nil, fmt.Errorf("discussion: %w: persona %s has no backend", ErrConfigInvalid, p.ID)
		}
		speakers = append(speakers, speaker{persona: p, gen: gen})
	}

	e := &Engine{
		cfg:      cfg,
		speakers: speakers,
		state:    Idle,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the current scheduler state and round.
func (e *Engine) State() (State, int) { return e.state, e.round }

// Personas returns the active personas in speaking order.
func (e *Engine) Personas() []persona.Persona {
	out := make([]persona.Persona, len(e.speakers))
	for i, s := range e.speakers {
		out[i] = s.persona
	}
	return out
}

// Generator returns the generator bound to the persona with the given id.
func (e *Engine) Generator(id string) (backend.Generator, bool) {
	for _, s := range e.speakers {
		if s.persona.ID == id {
			return s.gen, true
		}
	}
	return nil, false
}

// Run executes every configured round and returns the transcript. Turns run
// strictly one after another so each persona sees all earlier output. A
// failed turn is recorded as a placeholder and never stops the round.
// Cancellation of ctx is honoured between rounds; the partial transcript is
// returned together with an error wrapping ErrAborted. Turns left in the
// round when ctx is cancelled are not sent and are recorded as
// FailureAborted.
func (e *Engine) Run(ctx context.Context) (*Transcript, error) {
	if e.state != Idle {
		return nil, errors.New("discussion: engine has already run")
	}
	e.transcript = NewTranscript(e.cfg.Topic)
	e.log.Debug().
		Str("run_id", e.transcript.ID()).
		Int("rounds", e.cfg.Rounds).
		Int("personas", len(e.speakers)).
		Msg("discussion started")

	for round := 1; round <= e.cfg.Rounds; round++ {
		e.transition(RoundInProgress, round)
		for seq, s := range e.speakers {
			if err := e.takeTurn(ctx, round, seq, s); err != nil {
				return e.transcript, err
			}
		}
		e.transition(RoundComplete, round)

		if round < e.cfg.Rounds {
			if err := ctx.Err(); err != nil {
				e.log.Warn().Int("round", round).Err(err).Msg("discussion aborted")
				e.transition(Finished, round)
				return e.transcript, fmt.Errorf("discussion: %w after round %d: %w", ErrAborted, round, err)
			}
		}
	}
	e.transition(Finished, e.cfg.Rounds)
	e.log.Debug().
		Int("utterances", e.transcript.Len()).
		Int("failed", len(e.transcript.Failures())).
		Msg("discussion finished")
	return e.transcript, nil
}

func (e *Engine) takeTurn(ctx context.Context, round, seq int, s speaker) error {
	var (
		text string
		err  error
	)
	if err = ctx.Err(); err == nil {
		text, err = s.gen.Generate(ctx, BuildContext(s.persona, e.transcript))
	}

	u := Utterance{
		Persona: s.persona.ID,
		Speaker: s.persona.Label(),
		Round:   round,
		Seq:     seq,
		Time:    e.now(),
	}
	switch {
	case err != nil && ctx.Err() != nil:
		u.Failure = FailureAborted
		u.Error = err.Error()
		e.log.Debug().Str("persona", s.persona.ID).Int("round", round).Err(err).Msg("persona turn aborted")
	case err != nil:
		u.Failure = classify(err)
		u.Error = err.Error()
		e.log.Warn().
			Str("persona", s.persona.ID).
			Int("round", round).
			Str("failure", string(u.Failure)).
			Err(err).
			Msg("persona turn failed")
	default:
		u.Text = strings.TrimSpace(text)
		e.log.Debug().Str("persona", s.persona.ID).Int("round", round).Int("chars", len(u.Text)).Msg("persona spoke")
	}

	if err := e.transcript.Append(u); err != nil {
		return fmt.Errorf("discussion: %w", err)
	}
	if e.OnTurn != nil {
		e.OnTurn(u)
	}
	return nil
}

func (e *Engine) transition(state State, round int) {
	e.state = state
	e.round = round
	if e.OnState != nil {
		e.OnState(state, round)
	}
}
