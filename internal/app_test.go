package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/valter-silva-au/release-tag/internal/cli"
	"github.com/valter-silva-au/release-tag/internal/integration"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

func TestResolveRepoPath_EnvSet(t *testing.T) {
	// RTAG_REPO takes precedence.
	tmpDir := t.TempDir()
	t.Setenv("RTAG_REPO", tmpDir)

	got := ResolveRepoPath()
	if got != tmpDir {
		t.Errorf("ResolveRepoPath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveRepoPath_FindsDotGit(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(subDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RTAG_REPO", "")

	got, _ := filepath.EvalSymlinks(ResolveRepoPath())
	want, _ := filepath.EvalSymlinks(tmpDir)
	if got != want {
		t.Errorf("ResolveRepoPath() = %q, want %q (should find .git in parent)", got, want)
	}
}

// resetCLI restores the CLI package-level services after a test.
func resetCLI(t *testing.T) {
	t.Helper()
	origConfig, origWorkflow, origClassifier, origDrafts, origLog := cli.Config, cli.Workflow, cli.Classifier, cli.Drafts, cli.EventLog
	t.Cleanup(func() {
		cli.Config, cli.Workflow, cli.Classifier, cli.Drafts, cli.EventLog = origConfig, origWorkflow, origClassifier, origDrafts, origLog
	})
	cli.Workflow = nil
}

func writeConfig(t *testing.T, repo, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo, ".rtag.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewApp_WiresGitCLIBackend(t *testing.T) {
	resetCLI(t)
	repo := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	writeConfig(t, repo, "cache_dir: "+cacheDir+"\nbranch:\n  target: main\n")

	app, err := NewApp(repo)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if app.Config.TargetBranch != "main" {
		t.Errorf("TargetBranch = %q, want main", app.Config.TargetBranch)
	}
	if _, ok := app.VCS.(*integration.GitCLI); !ok {
		t.Errorf("VCS = %T, want *integration.GitCLI", app.VCS)
	}
	if app.Workflow == nil || app.Classifier == nil || app.Drafts == nil {
		t.Fatal("expected core services to be wired")
	}
	if app.EventLog == nil {
		t.Error("expected event log to be created")
	}
	if app.RunID == "" {
		t.Error("expected a run ID")
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "events.jsonl")); err != nil {
		t.Errorf("event log file not created: %v", err)
	}

	if cli.Workflow != app.Workflow || cli.Config != app.Config || cli.Drafts != app.Drafts {
		t.Error("expected CLI variables to be wired")
	}
	if got := app.Drafts.DraftPath("v1.0.0"); got != filepath.Join(cacheDir, "drafts", "v1.0.0.md") {
		t.Errorf("DraftPath = %q", got)
	}
}

func TestNewApp_GoGitBackend(t *testing.T) {
	resetCLI(t)
	repo := t.TempDir()
	if _, err := git.PlainInit(repo, false); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, repo, "cache_dir: "+t.TempDir()+"\nvcs:\n  backend: go-git\n")

	app, err := NewApp(repo)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if _, ok := app.VCS.(*integration.GoGit); !ok {
		t.Errorf("VCS = %T, want *integration.GoGit", app.VCS)
	}
	if app.Workflow == nil {
		t.Error("expected workflow to be wired")
	}
}

func TestNewApp_GoGitOutsideRepository(t *testing.T) {
	resetCLI(t)
	repo := t.TempDir()
	writeConfig(t, repo, "cache_dir: "+t.TempDir()+"\nvcs:\n  backend: go-git\n")

	app, err := NewApp(repo)
	if err != nil {
		t.Fatalf("NewApp should not fail outside a repository: %v", err)
	}
	defer app.Close()

	if app.Workflow != nil || cli.Workflow != nil {
		t.Error("expected no workflow without a repository")
	}
	if cli.Classifier == nil || cli.Drafts == nil {
		t.Error("repository-independent services should still be wired")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	resetCLI(t)
	repo := t.TempDir()
	writeConfig(t, repo, "cache_dir: "+t.TempDir()+"\nvcs:\n  backend: svn\npatterns:\n  fix:\n    - \"([\"\n")

	_, err := NewApp(repo)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"vcs.backend", "fix pattern"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestNewApp_CustomPatterns(t *testing.T) {
	resetCLI(t)
	repo := t.TempDir()
	writeConfig(t, repo, "cache_dir: "+t.TempDir()+"\npatterns:\n  feature:\n    - \"^add:\"\n")

	app, err := NewApp(repo)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if got := app.Classifier.Categorize("add: csv export"); got != models.CategoryFeature {
		t.Errorf("Categorize(add:) = %q, want feature", got)
	}
	if got := app.Classifier.Categorize("feat: csv export"); got != models.CategoryOther {
		t.Errorf("Categorize(feat:) = %q, want other once feature patterns are replaced", got)
	}
}

func TestNewVCS_UnknownBackend(t *testing.T) {
	if _, err := newVCS("svn", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}
