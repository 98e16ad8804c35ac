package core

import (
	"context"
	"fmt"
	"time"

	"github.com/valter-silva-au/release-tag/pkg/models"
)

// VCS is the version-control collaborator used by the release workflow.
// An empty tag argument means "no previous tag": the whole history.
type VCS interface {
	CurrentBranch(ctx context.Context) (string, error)
	Checkout(ctx context.Context, branch string) error
	Pull(ctx context.Context, remote, branch string) error
	// LatestTag returns the most recent tag reachable from HEAD, if any.
	LatestTag(ctx context.Context) (string, bool)
	CommitSubjectsSince(ctx context.Context, tag string) ([]string, error)
	DiffStat(ctx context.Context, tag string) (string, error)
	DiffContent(ctx context.Context, tag string) (string, error)
	CreateAnnotatedTag(ctx context.Context, name, message string) error
	PushTag(ctx context.Context, remote, name string) error
}

// DraftStore persists release-notes drafts keyed by version.
type DraftStore interface {
	// SaveDraft writes the draft for meta.Version, replacing any previous
	// draft for that version, and returns its path.
	SaveDraft(meta models.DraftMeta, content string) (string, error)
	// LoadDraftMeta returns the metadata saved with the draft at path, or
	// nil when the file was not produced by SaveDraft.
	LoadDraftMeta(path string) (*models.DraftMeta, error)
}

// ReleaseOptions are the caller inputs of one workflow invocation.
type ReleaseOptions struct {
	TargetBranch string
	Remote       string
	SkipSync     bool
	DryRun       bool
	Push         bool
	// ManualBump replaces the classifier's bump kind when set.
	ManualBump models.BumpKind
	// NotesFile selects the direct path; when empty a draft is saved and
	// the run suspends.
	NotesFile string
}

// ReleasePlan is the state derived before release notes are resolved. It is
// recomputed from the repository on every invocation.
type ReleasePlan struct {
	PreviousTag string
	Current     models.Version
	Next        models.Version
	Commits     []string
	Summary     models.ClassificationSummary
	Decision    models.VersionDecision
	Overridden  bool
	DiffStat    string
	DiffContent string
}

// HasChanges returns true when there are commits since the previous tag.
func (p *ReleasePlan) HasChanges() bool {
	return len(p.Commits) > 0
}

// ReleaseResult describes how a workflow invocation ended.
type ReleaseResult struct {
	State     models.ReleaseState
	Plan      *ReleasePlan
	DraftPath string
	Notes     string
	Pushed    bool
	Warnings  []string
}

// ReleaseWorkflow computes the next version and creates its annotated tag
// in two phases: a first run saves a draft and stops, a second run reads the
// edited notes and tags.
type ReleaseWorkflow interface {
	// Plan syncs the branch (unless skipped), classifies the commits since
	// the latest tag and computes the next version.
	Plan(ctx context.Context, opts ReleaseOptions) (*ReleasePlan, error)
	// Suspend renders and saves the draft for plan and returns its path.
	Suspend(plan *ReleasePlan) (string, error)
	// Finalize reads the notes file and creates (and optionally pushes) the
	// tag, or only previews it in dry-run mode.
	Finalize(ctx context.Context, plan *ReleasePlan, opts ReleaseOptions) (*ReleaseResult, error)
	// Run executes the whole sequence for one invocation.
	Run(ctx context.Context, opts ReleaseOptions) (*ReleaseResult, error)
}

type releaseWorkflow struct {
	vcs        VCS
	classifier CommitClassifier
	drafts     DraftStore
	events     EventLogger
	runID      string
	now        func() time.Time
}

// NewReleaseWorkflow creates a ReleaseWorkflow. events may be nil when
// observability is disabled.
func NewReleaseWorkflow(vcs VCS, classifier CommitClassifier, drafts DraftStore, events EventLogger, runID string) ReleaseWorkflow {
	if classifier == nil {
		classifier = NewCommitClassifier(nil)
	}
	return &releaseWorkflow{
		vcs:        vcs,
		classifier: classifier,
		drafts:     drafts,
		events:     events,
		runID:      runID,
		now:        time.Now,
	}
}

func (w *releaseWorkflow) Run(ctx context.Context, opts ReleaseOptions) (*ReleaseResult, error) {
	plan, err := w.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	if !plan.HasChanges() {
		w.logEvent(EventNoChanges, map[string]any{"previous_tag": plan.PreviousTag})
		return &ReleaseResult{State: models.StateNoChanges, Plan: plan}, nil
	}

	if opts.NotesFile == "" {
		path, err := w.Suspend(plan)
		if err != nil {
			return nil, err
		}
		return &ReleaseResult{State: models.StateSuspended, Plan: plan, DraftPath: path}, nil
	}

	return w.Finalize(ctx, plan, opts)
}

func (w *releaseWorkflow) Plan(ctx context.Context, opts ReleaseOptions) (*ReleasePlan, error) {
	if !opts.SkipSync {
		if err := w.syncMainline(ctx, opts.TargetBranch, opts.Remote); err != nil {
			return nil, err
		}
	}

	plan := &ReleasePlan{}
	if tag, ok := w.vcs.LatestTag(ctx); ok {
		plan.PreviousTag = tag
	}
	plan.Current = ParseVersion(plan.PreviousTag)

	commits, err := w.vcs.CommitSubjectsSince(ctx, plan.PreviousTag)
	if err != nil {
		return nil, w.fail(StepListCommits, err)
	}
	plan.Commits = commits
	if !plan.HasChanges() {
		return plan, nil
	}

	plan.Summary, plan.Decision = w.classifier.Classify(commits)
	if opts.ManualBump != "" {
		plan.Decision = models.VersionDecision{Bump: opts.ManualBump, Confidence: models.ConfidenceCertain}
		plan.Overridden = true
	}
	plan.Next = plan.Current.Bump(plan.Decision.Bump)

	w.logEvent(EventAnalyzed, map[string]any{
		"previous_tag": plan.PreviousTag,
		"version":      plan.Next.String(),
		"bump":         string(plan.Decision.Bump),
		"overridden":   plan.Overridden,
		"commits":      len(commits),
	})
	if plan.Decision.NeedsReview() {
		w.logWarning(EventUncertain, map[string]any{
			"version":      plan.Next.String(),
			"unrecognized": len(plan.Summary.Others),
		})
	}

	plan.DiffStat = w.optional(ctx, "diff stat", plan.PreviousTag, w.vcs.DiffStat)
	plan.DiffContent = w.optional(ctx, "diff content", plan.PreviousTag, w.vcs.DiffContent)

	return plan, nil
}

func (w *releaseWorkflow) Suspend(plan *ReleasePlan) (string, error) {
	content, err := BuildDraft(DraftInput{
		Version:     plan.Next,
		Commits:     plan.Commits,
		Summary:     plan.Summary,
		DiffStat:    plan.DiffStat,
		DiffContent: plan.DiffContent,
	})
	if err != nil {
		return "", w.fail(StepRenderDraft, err)
	}

	path, err := w.drafts.SaveDraft(models.DraftMeta{
		Version:     plan.Next.String(),
		PreviousTag: plan.PreviousTag,
		Bump:        plan.Decision.Bump,
		Confidence:  plan.Decision.Confidence,
		CommitCount: len(plan.Commits),
		RunID:       w.runID,
		Created:     w.now().UTC(),
	}, content)
	if err != nil {
		return "", w.fail(StepSaveDraft, err)
	}

	w.logEvent(EventDraftSaved, map[string]any{"version": plan.Next.String(), "path": path})
	return path, nil
}

func (w *releaseWorkflow) Finalize(ctx context.Context, plan *ReleasePlan, opts ReleaseOptions) (*ReleaseResult, error) {
	notes, err := ReadFinalNotes(opts.NotesFile)
	if err != nil {
		return nil, w.fail(StepReadNotes, err)
	}

	result := &ReleaseResult{Plan: plan, Notes: notes}
	if warning := w.checkDraftVersion(opts.NotesFile, plan.Next); warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	version := plan.Next.String()
	if opts.DryRun {
		result.State = models.StatePreviewOnly
		w.logEvent(EventPreview, map[string]any{"version": version})
		return result, nil
	}

	if err := w.vcs.CreateAnnotatedTag(ctx, version, notes); err != nil {
		return nil, w.fail(StepCreateTag, err)
	}
	w.logEvent(EventTagCreated, map[string]any{
		"version":    version,
		"bump":       string(plan.Decision.Bump),
		"confidence": string(plan.Decision.Confidence),
	})

	if opts.Push {
		if err := w.vcs.PushTag(ctx, opts.Remote, version); err != nil {
			return nil, w.fail(StepPushTag, err)
		}
		result.Pushed = true
		w.logEvent(EventTagPushed, map[string]any{"version": version, "remote": opts.Remote})
	}

	result.State = models.StateDone
	return result, nil
}

// syncMainline switches to branch if needed and pulls it from remote.
func (w *releaseWorkflow) syncMainline(ctx context.Context, branch, remote string) error {
	current, err := w.vcs.CurrentBranch(ctx)
	if err != nil {
		return w.fail(StepResolveBranch, err)
	}
	if current != branch {
		if err := w.vcs.Checkout(ctx, branch); err != nil {
			return w.fail(StepCheckout, err)
		}
	}
	if err := w.vcs.Pull(ctx, remote, branch); err != nil {
		return w.fail(StepPull, err)
	}
	return nil
}

// optional runs an informational VCS call, degrading failures to "".
func (w *releaseWorkflow) optional(ctx context.Context, what, tag string, fn func(context.Context, string) (string, error)) string {
	out, err := fn(ctx, tag)
	if err != nil {
		w.logWarning(EventDiffFailed, map[string]any{"operation": what, "error": err.Error()})
		return ""
	}
	return out
}

// checkDraftVersion compares the version a draft was generated for with the
// re-derived one.
func (w *releaseWorkflow) checkDraftVersion(path string, next models.Version) string {
	if w.drafts == nil {
		return ""
	}
	meta, err := w.drafts.LoadDraftMeta(path)
	if err != nil || meta == nil {
		return ""
	}
	if meta.Version != next.String() {
		return fmt.Sprintf("notes were drafted for %s but the computed version is now %s", meta.Version, next)
	}
	return ""
}

func (w *releaseWorkflow) fail(step string, err error) error {
	w.logError(EventFailed, map[string]any{"step": step, "error": err.Error()})
	return &StepError{Step: step, Err: err}
}

func (w *releaseWorkflow) logEvent(eventType string, data map[string]any) {
	if w.events != nil {
		_ = w.events.LogEvent(eventType, data) // Non-fatal.
	}
}

func (w *releaseWorkflow) logWarning(eventType string, data map[string]any) {
	if w.events != nil {
		_ = w.events.LogWarning(eventType, data)
	}
}

func (w *releaseWorkflow) logError(eventType string, data map[string]any) {
	if w.events != nil {
		_ = w.events.LogError(eventType, data)
	}
}
