package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fixitydb/fixity/internal/ferr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", formatErr(err))
		os.Exit(1)
	}
}

// formatErr renders err as spec.md §6's one-line "error: <kind>: <detail>"
// CLI failure format.
func formatErr(err error) string {
	kind := ferr.KindOf(err)
	msg := err.Error()
	// *ferr.Error already renders as "<kind>: <detail>"; only errors that
	// wrap one under another message need the kind put in front.
	if kind == ferr.KindUnknown || strings.HasPrefix(msg, kind.String()+": ") {
		return msg
	}
	return fmt.Sprintf("%s: %s", kind, msg)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fixi",
		Short:         "fixity reference CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug-level logging")
	root.AddCommand(newInitCmd())
	root.AddCommand(newMapCmd())
	root.AddCommand(newBytesCmd())
	return root
}

// osFs is the filesystem openApp wires into a fresh app. Tests swap it for
// an in-memory afero.Fs so CLI scenarios never touch the real filesystem.
var osFs afero.Fs = afero.NewOsFs()

// verboseFlag is bound to the root --verbose flag.
var verboseFlag bool

func openApp() (*app, error) {
	return newApp(osFs, loadEnv(), verboseFlag)
}
