package models

// VCS backend identifiers accepted by vcs.backend.
const (
	BackendGitCLI = "git"
	BackendGoGit  = "go-git"
)

// PatternConfig overrides the regular expressions used by the commit
// classifier. An empty list keeps the built-in patterns for that category.
type PatternConfig struct {
	Breaking []string `yaml:"breaking,omitempty" mapstructure:"breaking"`
	Feature  []string `yaml:"feature,omitempty" mapstructure:"feature"`
	Fix      []string `yaml:"fix,omitempty" mapstructure:"fix"`
}

// ReleaseConfig holds settings read from .rtag.yaml via Viper.
type ReleaseConfig struct {
	TargetBranch string        `yaml:"target_branch" mapstructure:"target_branch"`
	Remote       string        `yaml:"remote" mapstructure:"remote"`
	SkipSync     bool          `yaml:"skip_sync" mapstructure:"skip_sync"`
	Push         bool          `yaml:"push" mapstructure:"push"`
	Backend      string        `yaml:"backend" mapstructure:"backend"`
	CacheDir     string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	Patterns     PatternConfig `yaml:"patterns,omitempty" mapstructure:"patterns"`
}
