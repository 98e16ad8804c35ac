package core

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/valter-silva-au/release-tag/pkg/models"
)

// versionPrefixPattern matches MAJOR.MINOR.PATCH at the start of a string.
// Anything after the patch number (pre-release, build metadata) is ignored.
var versionPrefixPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)

// InitialVersion is the version assumed when a repository has no tags.
var InitialVersion = models.Version{}

// ParseVersion reads a version from a tag name such as "v2.3.1". Leading "v"
// characters are stripped. Input that does not start with three dot-separated
// numbers yields v0.0.0; ParseVersion never fails.
func ParseVersion(text string) models.Version {
	text = strings.TrimLeft(text, "v")

	matches := versionPrefixPattern.FindStringSubmatch(text)
	if matches == nil {
		return InitialVersion
	}

	parts := make([]int, 3)
	for i := range parts {
		n, err := strconv.Atoi(matches[i+1])
		if err != nil {
			// Out of int range.
			return InitialVersion
		}
		parts[i] = n
	}

	return models.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}
}

// NextVersion parses the previous tag and applies the bump. An empty tag is
// treated as v0.0.0.
func NextVersion(previousTag string, kind models.BumpKind) models.Version {
	return ParseVersion(previousTag).Bump(kind)
}
