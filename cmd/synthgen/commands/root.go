// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the synthgen command tree and shared output settings
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
)

const banner = `
███████╗██╗   ██╗███╗   ██╗████████╗██╗  ██╗ ██████╗ ███████╗███╗   ██╗
██╔════╝╚██╗ ██╔╝████╗  ██║╚══██╔══╝██║  ██║██╔════╝ ██╔════╝████╗  ██║
███████╗ ╚████╔╝ ██╔██╗ ██║   ██║   ███████║██║  ███╗█████╗  ██╔██╗ ██║
╚════██║  ╚██╔╝  ██║╚██╗██║   ██║   ██╔══██║██║   ██║██╔══╝  ██║╚██╗██║
███████║   ██║   ██║  ██║   ██║   ██║  ██║╚██████╔╝███████╗██║ ╚████║
╚══════╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synthgen",
		Short: "Generate synthetic QA datasets from documents with a local LLM",
		Long: banner + `
Synthgen turns documents into question/answer training datasets.

It chunks text, CSV, or JSON data into context passages, then streams
question and answer generation for each passage from a local
Ollama-compatible backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewChunkCmd(),
		NewSchemaCmd(),
		NewGenerateCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
