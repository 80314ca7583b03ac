// Package cli wires the crev cobra commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aezell/crev/internal/config"
)

// Exit codes.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitBelowScore = 2
)

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "crev",
		Short: "Heuristic code review for single source files",
		Long: `crev scores a source file for readability, modularity and best practices
and lists severity-ranked suggestions. Use it from the command line, in an
interactive terminal UI, or as a local HTTP/WebSocket service.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/crev/config.yaml)")

	root.AddCommand(
		newReviewCmd(),
		newTUICmd(),
		newServeCmd(),
		newLanguagesCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the effective config for cmd. Only non-empty overrides
// are applied on top of the file and environment.
func loadConfig(cmd *cobra.Command, overrides map[string]string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, overrides)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// changed returns the string value of a flag only when the user set it.
func changed(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}
