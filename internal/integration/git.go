package integration

import (
	"context"
	"strings"
)

// GitCLI implements the release workflow's VCS contract by shelling out to
// the git binary in a repository directory.
type GitCLI struct {
	dir    string
	runner CommandRunner
}

// NewGitCLI creates a git CLI backend for the repository at dir. A nil
// runner uses os/exec.
func NewGitCLI(dir string, runner CommandRunner) *GitCLI {
	if runner == nil {
		runner = NewCommandRunner()
	}
	return &GitCLI{dir: dir, runner: runner}
}

// git runs a git subcommand and returns its trimmed stdout.
func (g *GitCLI) git(ctx context.Context, args ...string) (string, error) {
	result, err := g.runner.Run(ctx, g.dir, "git", args...)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &CommandError{
			Args:     append([]string{"git"}, elideMessages(args)...),
			ExitCode: result.ExitCode,
			Output:   diagnosticOutput(result),
		}
	}
	return strings.TrimSpace(result.Stdout), nil
}

// elideMessages replaces -m values so a failed tag command does not echo the
// whole release notes.
func elideMessages(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "-m" {
			out[i+1] = "<message>"
			i++
		}
	}
	return out
}

func (g *GitCLI) CurrentBranch(ctx context.Context) (string, error) {
	return g.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

func (g *GitCLI) Checkout(ctx context.Context, branch string) error {
	_, err := g.git(ctx, "checkout", branch)
	return err
}

func (g *GitCLI) Pull(ctx context.Context, remote, branch string) error {
	_, err := g.git(ctx, "pull", remote, branch)
	return err
}

// LatestTag uses git describe; any failure means the repository has no
// reachable tag.
func (g *GitCLI) LatestTag(ctx context.Context) (string, bool) {
	tag, err := g.git(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil || tag == "" {
		return "", false
	}
	return tag, true
}

func (g *GitCLI) CommitSubjectsSince(ctx context.Context, tag string) ([]string, error) {
	args := []string{"log", "--pretty=format:%s"}
	if tag != "" {
		args = []string{"log", tag + "..HEAD", "--pretty=format:%s"}
	}
	out, err := g.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitSubjects(out), nil
}

// splitSubjects splits git log output into subjects, dropping blank lines.
func splitSubjects(out string) []string {
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects
}

// DiffStat compares tag with HEAD, or the staged changes when there is no tag.
func (g *GitCLI) DiffStat(ctx context.Context, tag string) (string, error) {
	if tag == "" {
		return g.git(ctx, "diff", "--stat", "--cached")
	}
	return g.git(ctx, "diff", "--stat", tag, "HEAD")
}

// DiffContent compares tag with HEAD, or the staged changes when there is no tag.
func (g *GitCLI) DiffContent(ctx context.Context, tag string) (string, error) {
	if tag == "" {
		return g.git(ctx, "diff", "--cached")
	}
	return g.git(ctx, "diff", tag, "HEAD")
}

// CreateAnnotatedTag stores message as written; the default cleanup mode
// would drop Markdown headings as comment lines.
func (g *GitCLI) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	_, err := g.git(ctx, "tag", "-a", name, "--cleanup=verbatim", "-m", message)
	return err
}

func (g *GitCLI) PushTag(ctx context.Context, remote, name string) error {
	_, err := g.git(ctx, "push", remote, name)
	return err
}
