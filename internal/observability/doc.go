// Package observability records release runs as structured JSON Lines
// (JSONL) events so past drafts, previews and tags can be audited later.
package observability
