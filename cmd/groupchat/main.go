package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "groupchat [topic]",
		Short: "Multi-persona group chat discussion",
		Long: "Runs a round-based group chat in which several LLM personas with distinct thinking styles discuss a topic, " +
			"each seeing everything said before it. Personas can run on Ollama, Groq, OpenAI, OpenRouter, Anthropic, Gemini or HuggingFace.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDiscuss,
	}

	root.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")
	root.PersistentFlags().String("env-file", ".env", "File with KEY=VALUE pairs loaded into the environment")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default warn)")
	root.PersistentFlags().String("output-dir", "", "Directory for saved discussions (default output)")
	root.PersistentFlags().Bool("save", false, "Save transcript.json, transcript.md, transcript.yaml and discussion.log")
	root.PersistentFlags().Bool("no-summary", false, "Skip the closing summary and takeaway")

	root.Flags().StringP("file", "f", "", "Read the topic from a file")
	root.Flags().IntP("rounds", "r", 0, "Number of discussion rounds (default 3)")
	root.Flags().Bool("no-synth", false, "Disable the Neutral Synthesizer participant")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newPersonasCmd())
	return root
}
