package main

import (
	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/groupchat/internal/demo"
	"github.com/lorenzotomasdiez/groupchat/internal/discussion"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay a pre-written discussion without any backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			save, _ := cmd.Flags().GetBool("save")
			s := &session{
				cfg:       discussion.Config{Topic: demo.Topic, Rounds: demo.Rounds, Synthesizer: true},
				personas:  demo.Personas(),
				resolver:  demo.Resolver(),
				recapGen:  demo.RecapGenerator(),
				summary:   cfg.Summary,
				save:      save,
				outputDir: cfg.OutputDir,
				log:       log.Logger,
				out:       cmd.OutOrStdout(),
			}
			return s.run(cmd.Context())
		},
	}
}
