package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/config"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
	"github.com/lorenzotomasdiez/groupchat/internal/logger"
	"github.com/lorenzotomasdiez/groupchat/internal/models"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

// loadConfig loads .env, the config file and the environment, then applies
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if noSummary, _ := flags.GetBool("no-summary"); noSummary {
		cfg.Summary = false
	}
	if flags.Lookup("rounds") != nil && flags.Changed("rounds") {
		cfg.Rounds, _ = flags.GetInt("rounds")
	}
	if flags.Lookup("no-synth") != nil {
		if noSynth, _ := flags.GetBool("no-synth"); noSynth {
			cfg.Synthesizer = false
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := logger.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.File = cfg.LogFile
	lc.RedactPatterns = cfg.LogRedact
	return logger.New(lc)
}

func runDiscuss(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	file, _ := cmd.Flags().GetString("file")
	topic, err := readTopic(args, file, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// Setup context with Ctrl+C cancellation
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	personas, err := cfg.Personas()
	if err != nil {
		return err
	}
	personas = pickFreeModels(ctx, personas, log)

	save, _ := cmd.Flags().GetBool("save")
	s := &session{
		cfg:       discussion.Config{Topic: topic, Rounds: cfg.Rounds, Synthesizer: cfg.Synthesizer},
		personas:  personas,
		resolver:  discussion.SpecResolver(backend.NewPool()),
		summary:   cfg.Summary,
		save:      save,
		outputDir: cfg.OutputDir,
		log:       log.Logger,
		out:       cmd.OutOrStdout(),
	}
	return s.run(ctx)
}

// pickFreeModels resolves OpenRouter personas configured with the "auto"
// model. A failed catalogue fetch falls back to the built-in free list.
func pickFreeModels(ctx context.Context, personas []persona.Persona, log *logger.Logger) []persona.Persona {
	for _, p := range personas {
		if p.Backend.Kind != backend.KindOpenRouter || p.Backend.Model != models.Auto {
			continue
		}
		resolved, err := models.ResolveAuto(ctx, backend.NewOpenRouter(p.Backend), personas)
		if err != nil {
			log.Warn().Err(err).Msg("could not fetch OpenRouter models, using defaults")
		}
		for _, r := range resolved {
			if r.Backend.Kind == backend.KindOpenRouter {
				log.Debug().Str("persona", r.ID).Str("model", r.Backend.Model).Msg("openrouter model selected")
			}
		}
		return resolved
	}
	return personas
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the personas and the backend each one is bound to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			personas, err := cfg.Personas()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range personas {
				status := "ready"
				if err := p.Backend.Validate(); err != nil {
					status = err.Error()
				}
				fmt.Fprintf(out, "%s %-20s %-40s temp=%.1f  %s\n", p.Emoji, p.Name, p.Backend.String(), p.Temperature, status)
			}
			return nil
		},
	}
}
