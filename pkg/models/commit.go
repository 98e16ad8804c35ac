package models

// Category is the mutually exclusive bucket a commit subject is sorted into.
type Category string

const (
	CategoryBreaking Category = "breaking"
	CategoryFeature  Category = "feature"
	CategoryFix      Category = "fix"
	CategoryOther    Category = "other"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryBreaking, CategoryFeature, CategoryFix, CategoryOther}
}

// Title returns the heading used for the category in drafts and reports.
func (c Category) Title() string {
	switch c {
	case CategoryBreaking:
		return "Breaking Changes"
	case CategoryFeature:
		return "Features"
	case CategoryFix:
		return "Fixes"
	default:
		return "Other Changes"
	}
}

// ClassificationSummary holds commit subjects grouped by category. Within a
// category, subjects keep the order they were classified in.
type ClassificationSummary struct {
	Breaking []string `yaml:"breaking,omitempty" json:"breaking"`
	Features []string `yaml:"features,omitempty" json:"features"`
	Fixes    []string `yaml:"fixes,omitempty" json:"fixes"`
	Others   []string `yaml:"others,omitempty" json:"others"`
}

// Add appends a commit subject to the given category.
func (s *ClassificationSummary) Add(c Category, commit string) {
	switch c {
	case CategoryBreaking:
		s.Breaking = append(s.Breaking, commit)
	case CategoryFeature:
		s.Features = append(s.Features, commit)
	case CategoryFix:
		s.Fixes = append(s.Fixes, commit)
	default:
		s.Others = append(s.Others, commit)
	}
}

// Commits returns the subjects recorded under c.
func (s ClassificationSummary) Commits(c Category) []string {
	switch c {
	case CategoryBreaking:
		return s.Breaking
	case CategoryFeature:
		return s.Features
	case CategoryFix:
		return s.Fixes
	default:
		return s.Others
	}
}

// Count returns the number of subjects recorded under c.
func (s ClassificationSummary) Count(c Category) int {
	return len(s.Commits(c))
}

// Total returns the number of classified subjects across all categories.
func (s ClassificationSummary) Total() int {
	return len(s.Breaking) + len(s.Features) + len(s.Fixes) + len(s.Others)
}
