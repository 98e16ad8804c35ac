package models

import "time"

// DraftMeta is persisted next to a release-notes draft so that a later
// invocation can check that it resumes the release it was generated for.
type DraftMeta struct {
	Version     string     `yaml:"version"`
	PreviousTag string     `yaml:"previous_tag,omitempty"`
	Bump        BumpKind   `yaml:"bump"`
	Confidence  Confidence `yaml:"confidence"`
	CommitCount int        `yaml:"commit_count"`
	RunID       string     `yaml:"run_id,omitempty"`
	Created     time.Time  `yaml:"created"`
	Path        string     `yaml:"-"`
}

// ReleaseState is the terminal state a release run finished in.
type ReleaseState string

const (
	StateNoChanges   ReleaseState = "no_changes"
	StateSuspended   ReleaseState = "suspended"
	StatePreviewOnly ReleaseState = "preview_only"
	StateDone        ReleaseState = "done"
)
