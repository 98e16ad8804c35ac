package integration

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/valter-silva-au/release-tag/internal/core"
)

var (
	_ core.VCS = (*GitCLI)(nil)
	_ core.VCS = (*GoGit)(nil)
)

type runnerCall struct {
	dir  string
	name string
	args []string
}

// fakeRunner returns canned results keyed by the joined argument list.
type fakeRunner struct {
	calls   []runnerCall
	results map[string]*CommandResult
	err     error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (*CommandResult, error) {
	f.calls = append(f.calls, runnerCall{dir: dir, name: name, args: args})
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[strings.Join(args, " ")]; ok {
		return r, nil
	}
	return &CommandResult{}, nil
}

func (f *fakeRunner) lastArgs() []string {
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1].args
}

func TestGitCLI_CommandArguments(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(g *GitCLI) error
		want []string
	}{
		{"checkout", func(g *GitCLI) error { return g.Checkout(ctx, "master") }, []string{"checkout", "master"}},
		{"pull", func(g *GitCLI) error { return g.Pull(ctx, "origin", "master") }, []string{"pull", "origin", "master"}},
		{"tag", func(g *GitCLI) error { return g.CreateAnnotatedTag(ctx, "v1.2.0", "notes") }, []string{"tag", "-a", "v1.2.0", "--cleanup=verbatim", "-m", "notes"}},
		{"push", func(g *GitCLI) error { return g.PushTag(ctx, "upstream", "v1.2.0") }, []string{"push", "upstream", "v1.2.0"}},
		{"log since tag", func(g *GitCLI) error { _, err := g.CommitSubjectsSince(ctx, "v1.0.0"); return err }, []string{"log", "v1.0.0..HEAD", "--pretty=format:%s"}},
		{"log full", func(g *GitCLI) error { _, err := g.CommitSubjectsSince(ctx, ""); return err }, []string{"log", "--pretty=format:%s"}},
		{"diff stat", func(g *GitCLI) error { _, err := g.DiffStat(ctx, "v1.0.0"); return err }, []string{"diff", "--stat", "v1.0.0", "HEAD"}},
		{"diff stat staged", func(g *GitCLI) error { _, err := g.DiffStat(ctx, ""); return err }, []string{"diff", "--stat", "--cached"}},
		{"diff", func(g *GitCLI) error { _, err := g.DiffContent(ctx, "v1.0.0"); return err }, []string{"diff", "v1.0.0", "HEAD"}},
		{"diff staged", func(g *GitCLI) error { _, err := g.DiffContent(ctx, ""); return err }, []string{"diff", "--cached"}},
		{"branch", func(g *GitCLI) error { _, err := g.CurrentBranch(ctx); return err }, []string{"rev-parse", "--abbrev-ref", "HEAD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			g := NewGitCLI("/repo", runner)
			if err := tt.call(g); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(runner.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(runner.calls))
			}
			call := runner.calls[0]
			if call.name != "git" || call.dir != "/repo" {
				t.Errorf("ran %s in %s, want git in /repo", call.name, call.dir)
			}
			if !reflect.DeepEqual(call.args, tt.want) {
				t.Errorf("args = %v, want %v", call.args, tt.want)
			}
		})
	}
}

func TestGitCLI_CurrentBranchTrimsOutput(t *testing.T) {
	runner := &fakeRunner{results: map[string]*CommandResult{
		"rev-parse --abbrev-ref HEAD": {Stdout: "feature/x\n"},
	}}
	branch, err := NewGitCLI("/repo", runner).CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if branch != "feature/x" {
		t.Errorf("branch = %q, want %q", branch, "feature/x")
	}
}

func TestGitCLI_CommitSubjectsDropBlankLines(t *testing.T) {
	runner := &fakeRunner{results: map[string]*CommandResult{
		"log v1.0.0..HEAD --pretty=format:%s": {Stdout: "feat: a\n\nfix: b\n  \n"},
	}}
	subjects, err := NewGitCLI("/repo", runner).CommitSubjectsSince(context.Background(), "v1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"feat: a", "fix: b"}
	if !reflect.DeepEqual(subjects, want) {
		t.Errorf("subjects = %v, want %v", subjects, want)
	}
}

func TestGitCLI_CommitSubjectsEmptyLog(t *testing.T) {
	subjects, err := NewGitCLI("/repo", &fakeRunner{}).CommitSubjectsSince(context.Background(), "v1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 0 {
		t.Errorf("expected no subjects, got %v", subjects)
	}
}

func TestGitCLI_LatestTag(t *testing.T) {
	runner := &fakeRunner{results: map[string]*CommandResult{
		"describe --tags --abbrev=0": {Stdout: "v1.4.2\n"},
	}}
	tag, ok := NewGitCLI("/repo", runner).LatestTag(context.Background())
	if !ok || tag != "v1.4.2" {
		t.Errorf("LatestTag = (%q, %v), want (v1.4.2, true)", tag, ok)
	}
}

func TestGitCLI_LatestTagAbsent(t *testing.T) {
	runner := &fakeRunner{results: map[string]*CommandResult{
		"describe --tags --abbrev=0": {ExitCode: 128, Stderr: "fatal: No names found, cannot describe anything."},
	}}
	tag, ok := NewGitCLI("/repo", runner).LatestTag(context.Background())
	if ok || tag != "" {
		t.Errorf("LatestTag = (%q, %v), want (\"\", false)", tag, ok)
	}
}

func TestGitCLI_NonZeroExitIsCommandError(t *testing.T) {
	runner := &fakeRunner{results: map[string]*CommandResult{
		"tag -a v1.0.0 --cleanup=verbatim -m notes": {ExitCode: 128, Stderr: "fatal: tag 'v1.0.0' already exists\n"},
	}}
	err := NewGitCLI("/repo", runner).CreateAnnotatedTag(context.Background(), "v1.0.0", "notes")
	if err == nil {
		t.Fatal("expected error")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.ExitCode != 128 {
		t.Errorf("exit code = %d, want 128", cmdErr.ExitCode)
	}
	if cmdErr.Output != "fatal: tag 'v1.0.0' already exists" {
		t.Errorf("output = %q", cmdErr.Output)
	}
	if !strings.HasPrefix(err.Error(), "git tag -a v1.0.0 --cleanup=verbatim -m <message> (exit 128)") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestGitCLI_CommandErrorOmitsTagMessage(t *testing.T) {
	notes := "## Overview\nA long body of release notes."
	runner := &fakeRunner{results: map[string]*CommandResult{
		"tag -a v2.0.0 --cleanup=verbatim -m " + notes: {ExitCode: 128, Stderr: "fatal: tag 'v2.0.0' already exists"},
	}}
	err := NewGitCLI("/repo", runner).CreateAnnotatedTag(context.Background(), "v2.0.0", notes)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "Overview") {
		t.Errorf("error should not include the tag message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "v2.0.0") {
		t.Errorf("error should name the tag: %q", err.Error())
	}
	// The runner still receives the full message.
	if got := runner.lastArgs(); got[len(got)-1] != notes {
		t.Errorf("message arg = %q, want %q", got[len(got)-1], notes)
	}
}

func TestElideMessages(t *testing.T) {
	args := []string{"tag", "-a", "v1.0.0", "-m", "body"}
	got := elideMessages(args)
	want := []string{"tag", "-a", "v1.0.0", "-m", "<message>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("elideMessages = %v, want %v", got, want)
	}
	if args[4] != "body" {
		t.Error("elideMessages must not modify its input")
	}
	if got := elideMessages([]string{"log", "-m"}); !reflect.DeepEqual(got, []string{"log", "-m"}) {
		t.Errorf("trailing -m = %v", got)
	}
}

func TestGitCLI_RunnerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("executing git: not found")}
	err := NewGitCLI("/repo", runner).Pull(context.Background(), "origin", "master")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected runner error, got %v", err)
	}
}

func TestDiagnosticOutput_FallsBackToStdout(t *testing.T) {
	got := diagnosticOutput(&CommandResult{Stdout: " rejected \n"})
	if got != "rejected" {
		t.Errorf("diagnosticOutput = %q, want %q", got, "rejected")
	}
}

func TestExecRunner_ReportsExitCode(t *testing.T) {
	result, err := NewCommandRunner().Run(context.Background(), t.TempDir(), "git", "definitely-not-a-subcommand")
	if err != nil {
		t.Skipf("git not available: %v", err)
	}
	if result.ExitCode == 0 {
		t.Error("expected non-zero exit code for unknown subcommand")
	}
}
