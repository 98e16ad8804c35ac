// Package core contains the release engine: version arithmetic, commit
// classification, draft rendering, the two-phase release workflow and
// configuration loading.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

// ConfigFileName is the per-repository configuration file, without extension.
const ConfigFileName = ".rtag"

// ConfigurationManager loads and validates .rtag.yaml.
type ConfigurationManager interface {
	LoadConfig() (*models.ReleaseConfig, error)
	ValidateConfig(cfg *models.ReleaseConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// repoPath is the directory where .rtag.yaml resides.
	repoPath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .rtag.yaml from repoPath.
func NewConfigurationManager(repoPath string) ConfigurationManager {
	return &viperConfigManager{repoPath: repoPath}
}

// DefaultConfig returns a ReleaseConfig populated with defaults.
func DefaultConfig() *models.ReleaseConfig {
	return &models.ReleaseConfig{
		TargetBranch: "master",
		Remote:       "origin",
		SkipSync:     false,
		Push:         false,
		Backend:      models.BackendGitCLI,
		CacheDir:     defaultCacheDir(),
	}
}

// defaultCacheDir is ~/.cache/release-tag, or a temp-dir fallback when the
// home directory cannot be resolved.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "release-tag")
	}
	return filepath.Join(home, ".cache", "release-tag")
}

// LoadConfig reads .rtag.yaml. If the file does not exist, defaults are
// returned.
func (cm *viperConfigManager) LoadConfig() (*models.ReleaseConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.repoPath)

	v.SetDefault("branch.target", cfg.TargetBranch)
	v.SetDefault("branch.remote", cfg.Remote)
	v.SetDefault("sync.skip", cfg.SkipSync)
	v.SetDefault("push", cfg.Push)
	v.SetDefault("vcs.backend", cfg.Backend)
	v.SetDefault("cache_dir", cfg.CacheDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
	}

	cfg.TargetBranch = v.GetString("branch.target")
	cfg.Remote = v.GetString("branch.remote")
	cfg.SkipSync = v.GetBool("sync.skip")
	cfg.Push = v.GetBool("push")
	cfg.Backend = v.GetString("vcs.backend")
	cfg.CacheDir = expandHome(v.GetString("cache_dir"))
	cfg.Patterns = models.PatternConfig{
		Breaking: v.GetStringSlice("patterns.breaking"),
		Feature:  v.GetStringSlice("patterns.feature"),
		Fix:      v.GetStringSlice("patterns.fix"),
	}

	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// validBackends is the set of allowed vcs.backend values.
var validBackends = map[string]bool{
	models.BackendGitCLI: true,
	models.BackendGoGit:  true,
}

// ValidateConfig checks cfg for invalid values and reports every problem
// found in a single error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.ReleaseConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.TargetBranch) == "" {
		errs = append(errs, "branch.target must not be empty")
	}

	if strings.TrimSpace(cfg.Remote) == "" {
		errs = append(errs, "branch.remote must not be empty")
	}

	if !validBackends[cfg.Backend] {
		errs = append(errs, fmt.Sprintf(
			"vcs.backend %q is invalid, must be one of: %s, %s",
			cfg.Backend, models.BackendGitCLI, models.BackendGoGit,
		))
	}

	if cfg.CacheDir == "" {
		errs = append(errs, "cache_dir must not be empty")
	}

	if _, err := CompilePatternTable(cfg.Patterns); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
