package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/release-tag/internal/core"
)

var notesCmd = &cobra.Command{
	Use:   "notes <file>",
	Short: "Print the final release notes of an edited draft",
	Long: `Print the text that would become the tag message for an edited draft: the
content below the marker line, or the whole file when the marker is absent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := core.ReadFinalNotes(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), notes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
}
