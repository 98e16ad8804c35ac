// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the release analysis as tools for AI coding assistants, so an assistant can
// inspect the pending release and help write its notes.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/release-tag/internal/core"
	"github.com/valter-silva-au/release-tag/pkg/models"
)

// Server wraps the release services and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	classifier core.CommitClassifier
	workflow   core.ReleaseWorkflow
}

// NewServer creates a new MCP server. workflow may be nil when no repository
// is available; plan_release then reports an error.
func NewServer(classifier core.CommitClassifier, workflow core.ReleaseWorkflow, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if classifier == nil {
		classifier = core.NewCommitClassifier(nil)
	}

	s := &Server{
		classifier: classifier,
		workflow:   workflow,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "rtag", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type classifyCommitsInput struct {
	Commits []string `json:"commits" jsonschema:"commit subject lines, newest first"`
}

type classificationOutput struct {
	Breaking   []string `json:"breaking"`
	Features   []string `json:"features"`
	Fixes      []string `json:"fixes"`
	Others     []string `json:"others"`
	Bump       string   `json:"bump"`
	Confidence string   `json:"confidence"`
}

type nextVersionInput struct {
	PreviousTag string `json:"previous_tag,omitempty" jsonschema:"the latest tag (e.g. v1.4.2); empty when the repository has no tags"`
	Bump        string `json:"bump" jsonschema:"the bump kind: major, minor or patch"`
}

type nextVersionOutput struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

type readReleaseNotesInput struct {
	Path string `json:"path" jsonschema:"path to an edited release-notes draft"`
}

type readReleaseNotesOutput struct {
	Notes string `json:"notes"`
}

type planReleaseInput struct {
	VersionType string `json:"version_type,omitempty" jsonschema:"override the computed bump kind: major, minor or patch"`
}

type planReleaseOutput struct {
	PreviousTag    string               `json:"previous_tag,omitempty"`
	Current        string               `json:"current"`
	Next           string               `json:"next,omitempty"`
	HasChanges     bool                 `json:"has_changes"`
	Classification classificationOutput `json:"classification"`
	Overridden     bool                 `json:"overridden"`
	Counts         map[string]int       `json:"counts"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "classify_commits",
		Description: "Classify commit subjects into breaking changes, features, fixes and other changes, and decide the semantic version bump.",
	}, s.handleClassifyCommits)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "next_version",
		Description: "Compute the next version from a previous tag and a bump kind (major, minor or patch).",
	}, s.handleNextVersion)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "read_release_notes",
		Description: "Read the final release notes from an edited draft file (the text below the marker line).",
	}, s.handleReadReleaseNotes)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "plan_release",
		Description: "Analyze the commits since the latest tag of the current repository and report the next version, without syncing, drafting or tagging.",
	}, s.handlePlanRelease)
}

// --- Tool handlers ---

func (s *Server) handleClassifyCommits(_ context.Context, _ *gomcp.CallToolRequest, input classifyCommitsInput) (*gomcp.CallToolResult, classificationOutput, error) {
	summary, decision := s.classifier.Classify(input.Commits)
	return nil, classificationToOutput(summary, decision), nil
}

func (s *Server) handleNextVersion(_ context.Context, _ *gomcp.CallToolRequest, input nextVersionInput) (*gomcp.CallToolResult, nextVersionOutput, error) {
	kind, err := models.ParseBumpKind(input.Bump)
	if err != nil {
		return errorResult(err.Error()), nextVersionOutput{}, nil
	}

	out := nextVersionOutput{
		Current: core.ParseVersion(input.PreviousTag).String(),
		Next:    core.NextVersion(input.PreviousTag, kind).String(),
	}
	return nil, out, nil
}

func (s *Server) handleReadReleaseNotes(_ context.Context, _ *gomcp.CallToolRequest, input readReleaseNotesInput) (*gomcp.CallToolResult, readReleaseNotesOutput, error) {
	if input.Path == "" {
		return errorResult("path is required"), readReleaseNotesOutput{}, nil
	}

	notes, err := core.ReadFinalNotes(input.Path)
	if err != nil {
		return errorResult(err.Error()), readReleaseNotesOutput{}, nil
	}
	return nil, readReleaseNotesOutput{Notes: notes}, nil
}

func (s *Server) handlePlanRelease(ctx context.Context, _ *gomcp.CallToolRequest, input planReleaseInput) (*gomcp.CallToolResult, planReleaseOutput, error) {
	if s.workflow == nil {
		return errorResult("no repository is available to plan a release"), planReleaseOutput{}, nil
	}

	opts := core.ReleaseOptions{SkipSync: true}
	if input.VersionType != "" {
		kind, err := models.ParseBumpKind(input.VersionType)
		if err != nil {
			return errorResult(err.Error()), planReleaseOutput{}, nil
		}
		opts.ManualBump = kind
	}

	plan, err := s.workflow.Plan(ctx, opts)
	if err != nil {
		return errorResult(fmt.Sprintf("planning release: %s", err)), planReleaseOutput{}, nil
	}

	out := planReleaseOutput{
		PreviousTag:    plan.PreviousTag,
		Current:        plan.Current.String(),
		HasChanges:     plan.HasChanges(),
		Classification: classificationToOutput(plan.Summary, plan.Decision),
		Overridden:     plan.Overridden,
		Counts:         make(map[string]int),
	}
	if plan.HasChanges() {
		out.Next = plan.Next.String()
	}
	for _, c := range models.Categories() {
		out.Counts[string(c)] = plan.Summary.Count(c)
	}
	return nil, out, nil
}

// --- Helpers ---

func classificationToOutput(summary models.ClassificationSummary, decision models.VersionDecision) classificationOutput {
	return classificationOutput{
		Breaking:   nonNil(summary.Breaking),
		Features:   nonNil(summary.Features),
		Fixes:      nonNil(summary.Fixes),
		Others:     nonNil(summary.Others),
		Bump:       string(decision.Bump),
		Confidence: string(decision.Confidence),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
