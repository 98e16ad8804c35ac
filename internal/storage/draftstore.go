// Package storage persists release-notes drafts between the suspend and
// resume invocations of a release.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valter-silva-au/release-tag/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	draftExt = ".md"
	metaExt  = ".yaml"
)

// DraftStoreManager defines the interface for the version-keyed draft
// directory. Each draft {version}.md has a {version}.yaml sidecar.
type DraftStoreManager interface {
	DraftPath(version string) string
	SaveDraft(meta models.DraftMeta, content string) (string, error)
	LoadDraftMeta(path string) (*models.DraftMeta, error)
	ListDrafts() ([]models.DraftMeta, error)
	RemoveDraft(version string) error
}

type fileDraftStore struct {
	dir string
}

// NewDraftStoreManager creates a DraftStoreManager rooted at dir. The
// directory is created on first save.
func NewDraftStoreManager(dir string) DraftStoreManager {
	return &fileDraftStore{dir: dir}
}

// DraftPath returns the deterministic location of the draft for version.
func (s *fileDraftStore) DraftPath(version string) string {
	return filepath.Join(s.dir, version+draftExt)
}

func metaPathFor(draftPath string) string {
	return strings.TrimSuffix(draftPath, filepath.Ext(draftPath)) + metaExt
}

// SaveDraft writes the draft and its metadata, replacing any earlier draft
// for the same version.
func (s *fileDraftStore) SaveDraft(meta models.DraftMeta, content string) (string, error) {
	if meta.Version == "" {
		return "", fmt.Errorf("saving draft: version must not be empty")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("saving draft: creating directory %s: %w", s.dir, err)
	}

	path := s.DraftPath(meta.Version)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("saving draft %s: %w", path, err)
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("saving draft: marshalling metadata: %w", err)
	}
	if err := os.WriteFile(metaPathFor(path), data, 0o644); err != nil {
		return "", fmt.Errorf("saving draft metadata for %s: %w", meta.Version, err)
	}

	return path, nil
}

// LoadDraftMeta reads the sidecar of the draft at path. A missing sidecar
// is not an error: notes files written by hand have none.
func (s *fileDraftStore) LoadDraftMeta(path string) (*models.DraftMeta, error) {
	data, err := os.ReadFile(metaPathFor(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading draft metadata: %w", err)
	}

	var meta models.DraftMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing draft metadata %s: %w", metaPathFor(path), err)
	}
	meta.Path = path
	return &meta, nil
}

// ListDrafts returns every draft in the store, newest first. Drafts without
// a readable sidecar are reported with only Version and Path set.
func (s *fileDraftStore) ListDrafts() ([]models.DraftMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing drafts: %w", err)
	}

	var drafts []models.DraftMeta
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != draftExt {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		meta, err := s.LoadDraftMeta(path)
		if err != nil || meta == nil {
			meta = &models.DraftMeta{
				Version: strings.TrimSuffix(e.Name(), draftExt),
				Path:    path,
			}
		}
		drafts = append(drafts, *meta)
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		if !drafts[i].Created.Equal(drafts[j].Created) {
			return drafts[i].Created.After(drafts[j].Created)
		}
		return drafts[i].Version < drafts[j].Version
	})

	return drafts, nil
}

// RemoveDraft deletes the draft for version and its sidecar.
func (s *fileDraftStore) RemoveDraft(version string) error {
	path := s.DraftPath(version)
	for _, p := range []string{path, metaPathFor(path)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing draft %s: %w", version, err)
		}
	}
	return nil
}
