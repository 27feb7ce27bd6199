package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codebaseai",
	Short: "LLM-assisted refactoring of Java source trees",
	Long: `codebaseai walks a Java source tree and rewrites every method body through
a Large Language Model, writing the result to a mirrored output tree.
Comments and all text outside method bodies are preserved byte for byte,
and files whose output is already up to date are skipped.

Available commands:
  refactor   - Refactor every stale .java file under a directory
  providers  - List the compiled-in LLM backends
  init       - Write a default .codebaseai/config.json
  version    - Print version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). SIGINT and SIGTERM cancel the run.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(refactorCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(initCmd)
}
