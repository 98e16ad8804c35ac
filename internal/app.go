// Package internal provides the App struct that wires all components of the
// release tag tool together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/valter-silva-au/release-tag/internal/cli"
	"github.com/valter-silva-au/release-tag/internal/core"
	"github.com/valter-silva-au/release-tag/internal/integration"
	"github.com/valter-silva-au/release-tag/internal/observability"
	"github.com/valter-silva-au/release-tag/internal/storage"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

// App holds all service dependencies for the release tag tool.
type App struct {
	RepoPath string
	Config   *models.ReleaseConfig

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Drafts storage.DraftStoreManager

	// Integration services. VCS is nil when the repository cannot be opened.
	VCS core.VCS

	// Core services
	Classifier core.CommitClassifier
	Workflow   core.ReleaseWorkflow

	// Observability
	EventLog observability.EventLog
	RunID    string
}

// NewApp creates and wires all components for the repository at repoPath.
func NewApp(repoPath string) (*App, error) {
	app := &App{RepoPath: repoPath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(repoPath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	app.Drafts = storage.NewDraftStoreManager(filepath.Join(cfg.CacheDir, "drafts"))

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(cfg.CacheDir, "events.jsonl"))
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		app.EventLog = nil
	}
	var events core.EventLogger
	if app.EventLog != nil {
		runLogger := observability.NewRunLogger(app.EventLog)
		app.RunID = runLogger.RunID()
		events = runLogger
	} else {
		app.RunID = uuid.NewString()
	}

	// --- Core services ---
	table, err := core.CompilePatternTable(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	app.Classifier = core.NewCommitClassifier(table)

	// --- Integration services ---
	vcs, err := newVCS(cfg.Backend, repoPath)
	if err == nil {
		app.VCS = vcs
		app.Workflow = core.NewReleaseWorkflow(vcs, app.Classifier, app.Drafts, events, app.RunID)
	}

	// --- Wire CLI package-level variables ---
	cli.Config = app.Config
	cli.Classifier = app.Classifier
	cli.Drafts = app.Drafts
	cli.EventLog = app.EventLog
	if app.Workflow != nil {
		cli.Workflow = app.Workflow
	}

	return app, nil
}

// newVCS creates the version-control backend named by backend.
func newVCS(backend, repoPath string) (core.VCS, error) {
	switch backend {
	case models.BackendGoGit:
		repo, err := integration.OpenGoGit(repoPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case models.BackendGitCLI, "":
		return integration.NewGitCLI(repoPath, integration.NewCommandRunner()), nil
	default:
		return nil, fmt.Errorf("unknown vcs backend %q", backend)
	}
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveRepoPath determines the repository the tool operates on.
// It checks the RTAG_REPO env var, then walks up from the current directory
// looking for .git, falling back to the current directory.
func ResolveRepoPath() string {
	if repo := os.Getenv("RTAG_REPO"); repo != "" {
		return repo
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a directory containing .git (a directory, or a file
	// in linked worktrees).
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}
