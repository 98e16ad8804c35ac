package core

import "fmt"

// Workflow step names used in StepError and event data.
const (
	StepResolveBranch = "resolve current branch"
	StepCheckout      = "checkout"
	StepPull          = "pull"
	StepListCommits   = "list commits"
	StepReadNotes     = "read release notes"
	StepRenderDraft   = "render draft"
	StepSaveDraft     = "save draft"
	StepCreateTag     = "create tag"
	StepPushTag       = "push tag"
)

// StepError is a fatal failure of a required workflow step. The wrapped
// error carries the raw diagnostic output of the failing operation.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
