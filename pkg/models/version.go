package models

import "fmt"

// BumpKind is the magnitude of a version increment.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// BumpKinds lists every valid BumpKind from largest to smallest.
func BumpKinds() []BumpKind {
	return []BumpKind{BumpMajor, BumpMinor, BumpPatch}
}

// ParseBumpKind converts user input such as "minor" into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	for _, k := range BumpKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid version type %q, must be one of: major, minor, patch", s)
}

// Confidence reports whether a BumpKind was derived from recognized commit
// conventions or defaulted conservatively.
type Confidence string

const (
	ConfidenceCertain   Confidence = "certain"
	ConfidenceUncertain Confidence = "uncertain"
)

// VersionDecision is the outcome of commit classification.
type VersionDecision struct {
	Bump       BumpKind   `yaml:"bump" json:"bump"`
	Confidence Confidence `yaml:"confidence" json:"confidence"`
}

// NeedsReview returns true when the bump kind was a conservative default.
func (d VersionDecision) NeedsReview() bool {
	return d.Confidence == ConfidenceUncertain
}

// Version is a three-component semantic version.
type Version struct {
	Major int `yaml:"major" json:"major"`
	Minor int `yaml:"minor" json:"minor"`
	Patch int `yaml:"patch" json:"patch"`
}

// String returns the canonical tag form, e.g. "v1.4.9".
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns the version that follows v for the given kind. Lower
// components are reset to zero. An unrecognized kind is treated as a patch.
func (v Version) Bump(kind BumpKind) Version {
	switch kind {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
