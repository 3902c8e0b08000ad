package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a process exit code out of a command. Err is nil when
// the failure has already been reported on the output stream.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewRootCommand assembles the extsort command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "extsort",
		Short: "Organize files into folders by extension",
		Long: `extsort walks a directory tree and moves every file into an
Extension_<EXT> folder at the top of the tree. Identical files are removed
after a content digest comparison, and files that share a name and size
but not content are kept apart in Extension_EXISTING.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewOrganizeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
