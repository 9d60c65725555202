package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the entigen CLI and returns an error if any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	root, err := newRootCmd()
	if err != nil {
		return err
	}
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree with the built-in readers and writers.
func newRootCmd() (*cobra.Command, error) {
	regs, err := newRegistries()
	if err != nil {
		return nil, err
	}

	var verbose bool
	root := &cobra.Command{
		Use:           appName,
		Short:         "entigen generates source code from entity metadata",
		Long:          `entigen loads entities and enumerations from CSV, YAML, SQL or snapshot metadata and writes Python, Go, SQL and GraphQL code for them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd(regs))
	root.AddCommand(newInspectCmd(regs))
	root.AddCommand(newSnapshotCmd(regs))
	root.AddCommand(newWritersCmd(regs))
	return root, nil
}
