package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion/recap"
	"github.com/lorenzotomasdiez/groupchat/internal/output"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// session drives one discussion from engine setup to saved output.
type session struct {
	cfg       discussion.Config
	personas  []persona.Persona
	resolver  discussion.Resolver
	recapGen  backend.Generator // defaults to the first speaker's backend
	summary   bool
	save      bool
	outputDir string
	log       zerolog.Logger
	out       io.Writer
}

func (s *session) run(ctx context.Context) error {
	engine, err := discussion.NewEngine(s.cfg, persona.NewRegistry(s.personas...), s.resolver, discussion.WithLogger(s.log))
	if err != nil {
		return err
	}
	active := engine.Personas()
	term := output.NewTerminal(s.out, active)
	term.PrintHeader(s.cfg.Topic, active, s.cfg.Rounds)

	var writer *output.Writer
	if s.save {
		dir, err := output.CreateOutputDir(s.outputDir, output.GenerateSlug(s.cfg.Topic))
		if err != nil {
			return err
		}
		writer = output.NewWriter(dir)
	}
	logLine := func(format string, args ...any) {
		if writer != nil {
			writer.Log(fmt.Sprintf(format, args...))
		}
	}

	engine.OnState = func(state discussion.State, round int) {
		if state == discussion.RoundInProgress {
			term.PrintRound(round)
		}
		logLine("round %d: %s", round, state)
	}
	engine.OnTurn = func(u discussion.Utterance) {
		term.PrintUtterance(u)
		if u.Failed() {
			logLine("[Round %d] %s failed (%s): %s", u.Round, u.Speaker, u.Failure, u.Error)
			return
		}
		logLine("[Round %d] %s: %s", u.Round, u.Speaker, u.Text)
	}

	transcript, runErr := engine.Run(ctx)
	if transcript == nil {
		return runErr
	}
	term.PrintFailures(transcript.Failures())
	interrupted := errors.Is(runErr, discussion.ErrAborted)
	if interrupted {
		s.log.Info().Err(runErr).Msg("discussion interrupted")
		logLine("interrupted: %v", runErr)
		term.PrintInterrupted(transcript.Rounds())
	}

	var rc *recap.Recap
	if runErr == nil && s.summary {
		gen := s.recapGen
		if gen == nil {
			gen, _ = engine.Generator(active[0].ID)
		}
		r, err := recap.New(gen).Write(ctx, transcript)
		if err != nil {
			s.log.Warn().Err(err).Msg("recap incomplete")
			logLine("recap failed: %v", err)
		}
		term.PrintRecap(r)
		rc = &r
	}

	if writer != nil {
		if err := saveDiscussion(writer, output.NewDocument(transcript, active, rc)); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "\nOutput saved to: %s\n", writer.Dir())
	}
	if interrupted {
		return nil
	}
	return runErr
}

func saveDiscussion(w *output.Writer, doc *output.Document) error {
	if err := w.WriteJSON(doc); err != nil {
		return err
	}
	if err := w.WriteMarkdown(doc); err != nil {
		return err
	}
	if err := w.WriteYAML(doc); err != nil {
		return err
	}
	return w.WriteLog()
}
