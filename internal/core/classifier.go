package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/valter-silva-au/release-tag/pkg/models"
)

// ClassificationRule assigns Category to a commit subject when any of its
// patterns match. When Lowercase is set the subject is lower-cased before
// matching.
type ClassificationRule struct {
	Category  models.Category
	Patterns  []*regexp.Regexp
	Lowercase bool
}

// Matches reports whether the rule fires for the given subject.
func (r ClassificationRule) Matches(subject string) bool {
	if r.Lowercase {
		subject = strings.ToLower(subject)
	}
	for _, p := range r.Patterns {
		if p.MatchString(subject) {
			return true
		}
	}
	return false
}

// PatternTable is an ordered list of rules. The first matching rule decides
// the category; subjects matched by no rule are CategoryOther.
type PatternTable []ClassificationRule

// Default conventional-commit patterns.
var (
	defaultBreakingPatterns = []string{
		`(?i)BREAKING[- ]CHANGE`,
		`(?i)^[a-z][a-z0-9_-]*(\(.+\))?!:`,
	}
	defaultFeaturePatterns = []string{
		`^feat(\(.+\))?:`,
		`^feature(\(.+\))?:`,
	}
	defaultFixPatterns = []string{
		`^fix(\(.+\))?:`,
		`^bugfix(\(.+\))?:`,
	}
)

// DefaultPatternTable returns the built-in conventional-commit rules in
// precedence order: breaking, feature, fix.
func DefaultPatternTable() PatternTable {
	table, err := CompilePatternTable(models.PatternConfig{})
	if err != nil {
		panic(fmt.Sprintf("default pattern table: %v", err))
	}
	return table
}

// CompilePatternTable builds a PatternTable, replacing the built-in patterns
// of any category for which cfg supplies its own list. Breaking patterns are
// matched case-insensitively against the raw subject, configured ones
// included. Feature and fix patterns see the lower-cased subject.
func CompilePatternTable(cfg models.PatternConfig) (PatternTable, error) {
	specs := []struct {
		category        models.Category
		patterns        []string
		defaults        []string
		lowercase       bool
		caseInsensitive bool
	}{
		{models.CategoryBreaking, cfg.Breaking, defaultBreakingPatterns, false, true},
		{models.CategoryFeature, cfg.Feature, defaultFeaturePatterns, true, false},
		{models.CategoryFix, cfg.Fix, defaultFixPatterns, true, false},
	}

	table := make(PatternTable, 0, len(specs))
	for _, s := range specs {
		sources := s.patterns
		if len(sources) == 0 {
			sources = s.defaults
		}
		rule := ClassificationRule{Category: s.category, Lowercase: s.lowercase}
		for _, src := range sources {
			expr := src
			if s.caseInsensitive && !strings.HasPrefix(expr, "(?i)") {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compiling %s pattern %q: %w", s.category, src, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		table = append(table, rule)
	}
	return table, nil
}

// CommitClassifier sorts commit subjects into categories and derives the
// version bump they imply.
type CommitClassifier interface {
	// Categorize returns the category of a single subject.
	Categorize(subject string) models.Category
	// Classify partitions subjects and decides the bump kind.
	Classify(subjects []string) (models.ClassificationSummary, models.VersionDecision)
}

type tableClassifier struct {
	table PatternTable
}

// NewCommitClassifier creates a CommitClassifier driven by the given table.
// A nil table uses DefaultPatternTable.
func NewCommitClassifier(table PatternTable) CommitClassifier {
	if table == nil {
		table = DefaultPatternTable()
	}
	return &tableClassifier{table: table}
}

func (c *tableClassifier) Categorize(subject string) models.Category {
	for _, rule := range c.table {
		if rule.Matches(subject) {
			return rule.Category
		}
	}
	return models.CategoryOther
}

func (c *tableClassifier) Classify(subjects []string) (models.ClassificationSummary, models.VersionDecision) {
	var summary models.ClassificationSummary
	for _, s := range subjects {
		summary.Add(c.Categorize(s), s)
	}
	return summary, DecideBump(summary)
}

// DecideBump derives the version decision from a summary:
// breaking => major, feature => minor, fix => patch. Only unrecognized
// commits yield an uncertain patch; no commits at all yield a certain patch.
func DecideBump(summary models.ClassificationSummary) models.VersionDecision {
	switch {
	case len(summary.Breaking) > 0:
		return models.VersionDecision{Bump: models.BumpMajor, Confidence: models.ConfidenceCertain}
	case len(summary.Features) > 0:
		return models.VersionDecision{Bump: models.BumpMinor, Confidence: models.ConfidenceCertain}
	case len(summary.Fixes) > 0:
		return models.VersionDecision{Bump: models.BumpPatch, Confidence: models.ConfidenceCertain}
	case len(summary.Others) > 0:
		return models.VersionDecision{Bump: models.BumpPatch, Confidence: models.ConfidenceUncertain}
	default:
		return models.VersionDecision{Bump: models.BumpPatch, Confidence: models.ConfidenceCertain}
	}
}
