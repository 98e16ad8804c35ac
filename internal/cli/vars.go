package cli

import (
	"github.com/valter-silva-au/release-tag/internal/core"
	"github.com/valter-silva-au/release-tag/internal/observability"
	"github.com/valter-silva-au/release-tag/internal/storage"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Config     *models.ReleaseConfig
	Workflow   core.ReleaseWorkflow
	Classifier core.CommitClassifier
	Drafts     storage.DraftStoreManager
)

// Observability service instances. EventLog is nil when the event log could
// not be opened.
var (
	EventLog observability.EventLog
)
