// Package cli implements the localbase command-line interface: a thin cobra
// layer over pkg/localbase that prints every result as {data, error} JSON.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "localbase" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags = rootFlags{}
	root := &cobra.Command{
		Use:   "localbase",
		Short: "An embedded stand-in for a hosted database client",
		Long: "localbase runs dashboard queries, mutations and sign-in against a\n" +
			"local snapshot store instead of a network service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "print compact JSON")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newTablesCmd(),
		newQueryCmd(),
		newInsertCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newResetCmd(),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:]))
}

// run executes root with args and maps the outcome to an exit code.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	var ce *cliError
	if errors.As(err, &ce) {
		if !ce.silent {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", ce.err)
		}
		return ce.code
	}
	// Flag and argument errors come straight from cobra.
	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	return exitUserError
}

// cliError carries an exit code. A silent error has already been reported,
// usually as a {data, error} document on stdout.
type cliError struct {
	code   int
	err    error
	silent bool
}

func (e *cliError) Error() string { return e.err.Error() }

func (e *cliError) Unwrap() error { return e.err }

// userError reports bad input with exit code 1.
func userError(format string, args ...any) error {
	return &cliError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError reports an environment failure with exit code 2.
func sysError(format string, args ...any) error {
	return &cliError{code: exitSysError, err: fmt.Errorf(format, args...)}
}
