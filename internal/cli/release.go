package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/release-tag/internal/core"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

var (
	releaseBranch      string
	releaseRemote      string
	releaseDryRun      bool
	releasePush        bool
	releaseNoUpdate    bool
	releaseVersionType string
	releaseMessageFile string
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Compute the next version and create its annotated tag",
	Long: `Compute the next semantic version from the commits since the latest tag and
create an annotated tag carrying the release notes.

Without --message-file, the target branch is synced, the commits are
classified and a release-notes draft is saved; the command then stops and
prints the command that resumes the release. With --message-file, the notes
below the marker line of that file become the tag message.

The version bump follows commit conventions: breaking changes bump major,
"feat:" commits bump minor, "fix:" commits bump patch. When no commit is
recognized the bump defaults to patch and must be reviewed; use
--version-type to choose it explicitly.`,
	Args: cobra.NoArgs,
	RunE: runRelease,
}

func init() {
	releaseCmd.Flags().StringVar(&releaseBranch, "branch", "", "Mainline branch to sync before analysis (default from config, master)")
	releaseCmd.Flags().StringVar(&releaseRemote, "remote", "", "Remote to pull from and push to (default from config, origin)")
	releaseCmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "Analyze and preview without creating the tag")
	releaseCmd.Flags().BoolVar(&releasePush, "push", false, "Push the tag to the remote after creating it")
	releaseCmd.Flags().BoolVar(&releaseNoUpdate, "no-update", false, "Skip checking out and pulling the mainline branch")
	releaseCmd.Flags().StringVar(&releaseVersionType, "version-type", "", "Override the computed bump: major, minor or patch")
	releaseCmd.Flags().StringVar(&releaseMessageFile, "message-file", "", "Use the notes in this file and create the tag")

	_ = releaseCmd.RegisterFlagCompletionFunc("version-type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		kinds := make([]string, 0, len(models.BumpKinds()))
		for _, k := range models.BumpKinds() {
			kinds = append(kinds, string(k))
		}
		return kinds, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	if Workflow == nil {
		return fmt.Errorf("release workflow not initialized")
	}

	opts, err := releaseOptions(cmd.Flags())
	if err != nil {
		return err
	}

	result, err := Workflow.Run(commandContext(cmd), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printWarnings(cmd.ErrOrStderr(), result.Warnings)

	plan := result.Plan
	if result.State == models.StateNoChanges {
		renderNoChanges(out, plan)
		return nil
	}

	renderAnalysis(out, plan)
	if plan.Decision.NeedsReview() {
		renderAdvisory(out, plan)
	}

	switch result.State {
	case models.StateSuspended:
		renderSuspended(out, result.DraftPath, resumeCommand(cmd, result.DraftPath))
	case models.StatePreviewOnly:
		renderNotes(out, result.Notes)
		renderPreview(out, plan)
	case models.StateDone:
		renderNotes(out, result.Notes)
		rerun := cmd.CommandPath() + " --version-type <major|minor|patch>"
		renderTagged(out, result, opts.Remote, rerun)
	}
	return nil
}

// releaseOptions merges the command-line flags over the loaded configuration.
// A flag given explicitly wins, including --push=false and --no-update=false.
func releaseOptions(flags *pflag.FlagSet) (core.ReleaseOptions, error) {
	cfg := Config
	if cfg == nil {
		cfg = core.DefaultConfig()
	}

	opts := core.ReleaseOptions{
		TargetBranch: cfg.TargetBranch,
		Remote:       cfg.Remote,
		SkipSync:     cfg.SkipSync,
		DryRun:       releaseDryRun,
		Push:         cfg.Push,
		NotesFile:    releaseMessageFile,
	}
	if flags.Changed("no-update") {
		opts.SkipSync = releaseNoUpdate
	}
	if flags.Changed("push") {
		opts.Push = releasePush
	}
	if releaseBranch != "" {
		opts.TargetBranch = releaseBranch
	}
	if releaseRemote != "" {
		opts.Remote = releaseRemote
	}
	if releaseVersionType != "" {
		kind, err := models.ParseBumpKind(releaseVersionType)
		if err != nil {
			return core.ReleaseOptions{}, err
		}
		opts.ManualBump = kind
	}
	return opts, nil
}

// resumeCommand rebuilds the invocation that finishes a suspended release:
// the flags given on this run, minus --dry-run, plus --message-file.
func resumeCommand(cmd *cobra.Command, draftPath string) string {
	parts := []string{cmd.CommandPath()}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dry-run", "message-file":
			return
		}
		if f.Value.Type() == "bool" {
			if f.Value.String() == "true" {
				parts = append(parts, "--"+f.Name)
			} else {
				parts = append(parts, "--"+f.Name+"=false")
			}
			return
		}
		parts = append(parts, "--"+f.Name, shellQuote(f.Value.String()))
	})
	parts = append(parts, "--message-file", shellQuote(draftPath))
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when it contains characters a shell would split
// or expand.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
