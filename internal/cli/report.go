package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/release-tag/internal/core"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	notesStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	versionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderAnalysis prints the version derivation for plan.
func renderAnalysis(w io.Writer, plan *core.ReleasePlan) {
	fmt.Fprintln(w, titleStyle.Render("Release analysis"))
	fmt.Fprintln(w)

	if plan.PreviousTag != "" {
		fmt.Fprintf(w, "  Previous tag:  %s\n", plan.PreviousTag)
	} else {
		fmt.Fprintf(w, "  Previous tag:  none (starting from %s)\n", plan.Current)
	}
	fmt.Fprintf(w, "  Commits:       %d\n", len(plan.Commits))
	for _, c := range models.Categories() {
		fmt.Fprintf(w, "    %-18s %d\n", c.Title()+":", plan.Summary.Count(c))
	}

	bump := string(plan.Decision.Bump)
	if plan.Overridden {
		bump += " (set by --version-type)"
	} else if plan.Decision.NeedsReview() {
		bump += " (conservative default)"
	}
	fmt.Fprintf(w, "  Bump:          %s\n", bump)
	fmt.Fprintf(w, "  Next version:  %s\n", versionStyle.Render(plan.Next.String()))
}

// renderAdvisory explains an uncertain decision: which commits were not
// recognized, what changed, and how to choose the bump explicitly.
func renderAdvisory(w io.Writer, plan *core.ReleasePlan) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, warnStyle.Render("Version bump defaulted to PATCH (conservative); review before tagging"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Commits without a recognized prefix:"))
	for _, commit := range plan.Summary.Others {
		fmt.Fprintf(w, "  - %s\n", commit)
	}

	if plan.DiffContent != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Code changes:"))
		excerpt, omitted := core.TruncateDiff(plan.DiffContent, core.DiffExcerptLimit)
		fmt.Fprintln(w, excerpt)
		if omitted > 0 {
			fmt.Fprintf(w, "\n... (%d more characters)\n", omitted)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("If these changes include:"))
	fmt.Fprintln(w, "  - breaking changes                     use major")
	fmt.Fprintln(w, "  - backward-compatible features         use minor")
	fmt.Fprintln(w, "  - only fixes, docs or refactoring      patch is correct")
	fmt.Fprintln(w)
	fmt.Fprintln(w, hintStyle.Render("To choose the bump yourself, re-run with --version-type <major|minor|patch>."))
}

// renderSuspended tells the user where the draft is and how to resume.
func renderSuspended(w io.Writer, draftPath, resume string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Release notes draft saved"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  File: %s\n", draftPath)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Edit the file and write the final notes below the line:\n  %s\n", core.DraftMarker)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Then create the tag with:")
	fmt.Fprintf(w, "\n  %s\n", resume)
}

// renderNotes prints the resolved release notes.
func renderNotes(w io.Writer, notes string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Release notes:"))
	if notes == "" {
		fmt.Fprintln(w, hintStyle.Render("  (empty)"))
		return
	}
	fmt.Fprintln(w, notesStyle.Render(notes))
}

// renderPreview reports a dry run that withheld tag creation.
func renderPreview(w io.Writer, plan *core.ReleasePlan) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Dry run: tag %s was not created.\n", plan.Next)
	if plan.Decision.NeedsReview() {
		fmt.Fprintln(w, hintStyle.Render("If the version type is wrong, override it with --version-type <major|minor|patch>."))
	}
}

// renderTagged reports the created tag and, for an uncertain decision, how
// to undo it.
func renderTagged(w io.Writer, result *core.ReleaseResult, remote, rerun string) {
	version := result.Plan.Next.String()
	fmt.Fprintln(w)
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Tag %s created.", version)))
	if result.Pushed {
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Tag %s pushed to %s.", version, remote)))
	}

	if !result.Plan.Decision.NeedsReview() {
		return
	}
	steps := []string{fmt.Sprintf("git tag -d %s", version)}
	if result.Pushed {
		steps = append(steps, fmt.Sprintf("git push %s :refs/tags/%s", remote, version))
	}
	steps = append(steps, rerun)

	fmt.Fprintln(w)
	fmt.Fprintln(w, hintStyle.Render("If the version type is wrong:"))
	for i, step := range steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
}

// renderNoChanges reports that there is nothing to release.
func renderNoChanges(w io.Writer, plan *core.ReleasePlan) {
	if plan.PreviousTag == "" {
		fmt.Fprintln(w, "No commits found; nothing to release.")
		return
	}
	fmt.Fprintf(w, "No new commits since %s; nothing to release.\n", plan.PreviousTag)
}

// printWarnings writes each warning on its own line.
func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", strings.TrimSpace(warning))
	}
}
