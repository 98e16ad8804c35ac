package core

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/valter-silva-au/release-tag/pkg/models"
)

// DraftMarker separates generated context from the final release notes. Text
// after the last occurrence of this line becomes the tag message.
const DraftMarker = "# Final release notes (write below this line)"

// DiffExcerptLimit caps, in characters, the diff shown in drafts and in the
// uncertain-version advisory.
const DiffExcerptLimit = 5000

// DraftInput is everything a release-notes draft is rendered from.
type DraftInput struct {
	Version     models.Version
	Commits     []string
	Summary     models.ClassificationSummary
	DiffStat    string
	DiffContent string
}

// TruncateDiff cuts s to at most limit characters and reports how many
// characters were dropped. Cuts may fall mid-line.
func TruncateDiff(s string, limit int) (string, int) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, 0
	}
	return string(runes[:limit]), len(runes) - limit
}

type draftSection struct {
	Title   string
	Commits []string
}

type draftData struct {
	Version     string
	Total       int
	Counts      map[string]int
	Sections    []draftSection
	DiffStat    string
	DiffExcerpt string
	Omitted     int
	Marker      string
}

var draftTemplate = template.Must(template.New("draft").Parse(`# Release Notes for {{.Version}}

Write release notes for this version from the information below.
**Note:** do not just list the commits; describe the changes that matter and why.

## Version
- Version: {{.Version}}
- Total commits: {{.Total}}
  - Breaking changes: {{index .Counts "breaking"}}
  - Features: {{index .Counts "feature"}}
  - Fixes: {{index .Counts "fix"}}
  - Other: {{index .Counts "other"}}

## Commit Messages

{{range .Sections}}### {{.Title}}
{{range .Commits}}- {{.}}
{{end}}
{{end}}## Change Statistics

` + "```" + `
{{.DiffStat}}
` + "```" + `

## Diff

<details>
<summary>Full diff (may be long)</summary>

` + "```diff" + `
{{.DiffExcerpt}}
{{if .Omitted}}... ({{.Omitted}} more characters){{end}}
` + "```" + `

</details>

---

## Write the release notes below

**Guidelines:**
1. Summarize the main changes in plain language.
2. Focus on user-visible features and behavior.
3. Do not copy commit messages verbatim.
4. Use Markdown.
5. Put implementation details only in a final "Developer Notes (optional)" section:
   - new modules or directories
   - important implementation notes
   - approximate size of the change (order of magnitude, not exact line counts)
6. State facts and impact only; no subjective praise.
7. Do not end with a one-line summary.
8. If the diff is not enough to establish a fact, say "unknown / please confirm" instead of guessing.

**Example:**
` + "```markdown" + `
Release {{.Version}}

## Overview
<1-2 sentences: the core change in this release and its impact on users>

**Changes:**
- <2-5 points: user-visible capabilities or behavior changes>

**Developer Notes: (optional)**
- <new directories / key files (3-8 items)>
- <implementation notes (1-3 items)>
` + "```" + `

---

{{.Marker}}

`))

// BuildDraft renders the editable release-notes document. Empty categories
// are left out; the diff is capped at DiffExcerptLimit characters.
func BuildDraft(in DraftInput) (string, error) {
	data := draftData{
		Version:  in.Version.String(),
		Total:    len(in.Commits),
		Counts:   make(map[string]int, 4),
		DiffStat: in.DiffStat,
		Marker:   DraftMarker,
	}
	for _, c := range models.Categories() {
		data.Counts[string(c)] = in.Summary.Count(c)
		if commits := in.Summary.Commits(c); len(commits) > 0 {
			data.Sections = append(data.Sections, draftSection{Title: c.Title(), Commits: commits})
		}
	}
	data.DiffExcerpt, data.Omitted = TruncateDiff(in.DiffContent, DiffExcerptLimit)

	var buf bytes.Buffer
	if err := draftTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering draft for %s: %w", data.Version, err)
	}
	return buf.String(), nil
}

// ExtractFinalNotes returns the trimmed text after the last DraftMarker. When
// the marker is missing or nothing follows it, the whole trimmed content is
// returned so hand-written notes files work too.
func ExtractFinalNotes(content string) string {
	if idx := strings.LastIndex(content, DraftMarker); idx >= 0 {
		if notes := strings.TrimSpace(content[idx+len(DraftMarker):]); notes != "" {
			return notes
		}
	}
	return strings.TrimSpace(content)
}

// ReadFinalNotes reads a notes file and extracts the final release notes.
func ReadFinalNotes(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading release notes %s: %w", path, err)
	}
	return ExtractFinalNotes(string(data)), nil
}
