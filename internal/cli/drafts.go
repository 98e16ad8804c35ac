package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List saved release-notes drafts",
	Long: `List the release-notes drafts saved by suspended releases, newest first.

Each draft is keyed by the version it was generated for; a later release of
the same version overwrites it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Drafts == nil {
			return fmt.Errorf("draft store not initialized")
		}

		drafts, err := Drafts.ListDrafts()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(drafts) == 0 {
			fmt.Fprintln(out, "No drafts found.")
			return nil
		}

		fmt.Fprintf(out, "%-12s %-12s %-6s %-10s %-17s %s\n", "VERSION", "PREVIOUS", "BUMP", "CONFIDENCE", "CREATED", "PATH")
		for _, d := range drafts {
			previous := d.PreviousTag
			if previous == "" {
				previous = "-"
			}
			created := "-"
			if !d.Created.IsZero() {
				created = d.Created.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(out, "%-12s %-12s %-6s %-10s %-17s %s\n",
				d.Version, previous, orDash(string(d.Bump)), orDash(string(d.Confidence)), created, d.Path)
		}
		return nil
	},
}

var draftsRmCmd = &cobra.Command{
	Use:   "rm <version>",
	Short: "Remove the draft saved for a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Drafts == nil {
			return fmt.Errorf("draft store not initialized")
		}

		if err := Drafts.RemoveDraft(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed draft for %s\n", args[0])
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	draftsCmd.AddCommand(draftsRmCmd)
	rootCmd.AddCommand(draftsCmd)
}
