package core

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
	LogWarning(eventType string, data map[string]any) error
	LogError(eventType string, data map[string]any) error
}

// Event types written by the release workflow.
const (
	EventAnalyzed   = "release.analyzed"
	EventUncertain  = "release.uncertain"
	EventNoChanges  = "release.no_changes"
	EventDiffFailed = "release.diff_unavailable"
	EventDraftSaved = "release.draft_saved"
	EventPreview    = "release.preview"
	EventTagCreated = "release.tag_created"
	EventTagPushed  = "release.tag_pushed"
	EventFailed     = "release.failed"
)
