package integration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// defaultTagger signs tags when no user identity is configured.
var defaultTagger = object.Signature{Name: "rtag", Email: "rtag@localhost"}

// GoGit implements the release workflow's VCS contract in-process with
// go-git, without requiring a git binary.
type GoGit struct {
	repo *git.Repository
}

// OpenGoGit opens the repository containing path.
func OpenGoGit(path string) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}
	return &GoGit{repo: repo}, nil
}

// NewGoGit wraps an already opened repository.
func NewGoGit(repo *git.Repository) *GoGit {
	return &GoGit{repo: repo}
}

func (g *GoGit) CurrentBranch(_ context.Context) (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "HEAD", nil
	}
	return head.Name().Short(), nil
}

func (g *GoGit) Checkout(_ context.Context, branch string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)}); err != nil {
		return fmt.Errorf("checking out %s: %w", branch, err)
	}
	return nil
}

func (g *GoGit) Pull(ctx context.Context, remote, branch string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remote,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pulling %s/%s: %w", remote, branch, err)
	}
	return nil
}

// tagsByCommit maps each tagged commit to the names of its tags, sorted.
func (g *GoGit) tagsByCommit() (map[plumbing.Hash][]string, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, err
	}
	tags := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := g.peel(ref)
		if err != nil {
			// Tags pointing at trees or blobs cannot describe a commit.
			return nil
		}
		tags[commit.Hash] = append(tags[commit.Hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	for hash := range tags {
		sort.Strings(tags[hash])
	}
	return tags, nil
}

// peel resolves a tag reference, annotated or lightweight, to its commit.
func (g *GoGit) peel(ref *plumbing.Reference) (*object.Commit, error) {
	tagObj, err := g.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		return tagObj.Commit()
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return g.repo.CommitObject(ref.Hash())
	default:
		return nil, err
	}
}

func (g *GoGit) resolveTag(name string) (*object.Commit, error) {
	ref, err := g.repo.Tag(name)
	if err != nil {
		return nil, fmt.Errorf("resolving tag %s: %w", name, err)
	}
	return g.peel(ref)
}

func (g *GoGit) headCommit() (*object.Commit, error) {
	head, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}
	return g.repo.CommitObject(head.Hash())
}

// LatestTag returns the tag on the most recent commit reachable from HEAD.
// When a commit carries several tags the last one in name order wins.
func (g *GoGit) LatestTag(_ context.Context) (string, bool) {
	tags, err := g.tagsByCommit()
	if err != nil || len(tags) == 0 {
		return "", false
	}
	head, err := g.repo.Head()
	if err != nil {
		return "", false
	}
	iter, err := g.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", false
	}
	var found string
	_ = iter.ForEach(func(c *object.Commit) error {
		if names, ok := tags[c.Hash]; ok {
			found = names[len(names)-1]
			return storer.ErrStop
		}
		return nil
	})
	return found, found != ""
}

// CommitSubjectsSince lists subjects of commits reachable from HEAD but not
// from tag, newest first. An empty tag lists the whole history.
func (g *GoGit) CommitSubjectsSince(_ context.Context, tag string) ([]string, error) {
	exclude := make(map[plumbing.Hash]bool)
	if tag != "" {
		tagCommit, err := g.resolveTag(tag)
		if err != nil {
			return nil, err
		}
		ancestors, err := g.repo.Log(&git.LogOptions{From: tagCommit.Hash})
		if err != nil {
			return nil, fmt.Errorf("walking history of %s: %w", tag, err)
		}
		err = ancestors.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking history of %s: %w", tag, err)
		}
	}

	head, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("reading HEAD: %w", err)
	}
	iter, err := g.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("reading repository log: %w", err)
	}

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		if subject := commitSubject(c.Message); subject != "" {
			subjects = append(subjects, subject)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading repository log: %w", err)
	}
	return subjects, nil
}

func commitSubject(message string) string {
	first, _, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")
	return strings.TrimSpace(first)
}

// patchSince computes the patch from tag to HEAD. Without a tag there is no
// base to compare against and the patch is nil.
func (g *GoGit) patchSince(tag string) (*object.Patch, error) {
	if tag == "" {
		return nil, nil
	}
	from, err := g.resolveTag(tag)
	if err != nil {
		return nil, err
	}
	to, err := g.headCommit()
	if err != nil {
		return nil, err
	}
	patch, err := from.Patch(to)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..HEAD: %w", tag, err)
	}
	return patch, nil
}

func (g *GoGit) DiffStat(_ context.Context, tag string) (string, error) {
	patch, err := g.patchSince(tag)
	if err != nil || patch == nil {
		return "", err
	}
	return strings.TrimRight(patch.Stats().String(), "\n"), nil
}

func (g *GoGit) DiffContent(_ context.Context, tag string) (string, error) {
	patch, err := g.patchSince(tag)
	if err != nil || patch == nil {
		return "", err
	}
	return strings.TrimRight(patch.String(), "\n"), nil
}

func (g *GoGit) CreateAnnotatedTag(_ context.Context, name, message string) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("reading HEAD: %w", err)
	}
	if message == "" {
		message = name
	}
	_, err = g.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  g.tagger(),
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// tagger builds the tag signature from the configured user identity.
func (g *GoGit) tagger() *object.Signature {
	sig := defaultTagger
	if cfg, err := g.repo.ConfigScoped(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			sig.Name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			sig.Email = cfg.User.Email
		}
	}
	sig.When = time.Now()
	return &sig
}

func (g *GoGit) PushTag(ctx context.Context, remote, name string) error {
	spec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
	err := g.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing tag %s to %s: %w", name, remote, err)
	}
	return nil
}
