package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log, _ := newTestLog(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []Event{
		{
			Time:    now,
			RunID:   "run-a",
			Level:   LevelInfo,
			Type:    "release.draft_saved",
			Message: "draft saved",
			Data:    map[string]any{"version": "v1.5.0"},
		},
		{
			Time:    now.Add(time.Second),
			RunID:   "run-a",
			Level:   LevelWarn,
			Type:    "release.uncertain",
			Message: "uncertain",
		},
	}

	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result))
	}
	if result[0].Type != "release.draft_saved" {
		t.Errorf("expected type release.draft_saved, got %s", result[0].Type)
	}
	if result[0].Data["version"] != "v1.5.0" {
		t.Errorf("expected version data, got %v", result[0].Data)
	}
	if result[1].Level != LevelWarn {
		t.Errorf("expected level WARN, got %s", result[1].Level)
	}
}

func TestEventLog_Filters(t *testing.T) {
	log, _ := newTestLog(t)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: base, RunID: "r1", Level: LevelInfo, Type: "release.draft_saved", Message: "first"},
		{Time: base.Add(time.Hour), RunID: "r2", Level: LevelInfo, Type: "release.tag_created", Message: "second"},
		{Time: base.Add(2 * time.Hour), RunID: "r2", Level: LevelError, Type: "release.failed", Message: "third"},
		{Time: base.Add(3 * time.Hour), RunID: "r3", Level: LevelInfo, Type: "release.tag_created", Message: "fourth"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	since := base.Add(30 * time.Minute)
	until := base.Add(2*time.Hour + 30*time.Minute)

	tests := []struct {
		name   string
		filter EventFilter
		want   []string
	}{
		{"by type", EventFilter{Type: "release.tag_created"}, []string{"second", "fourth"}},
		{"by level", EventFilter{Level: LevelError}, []string{"third"}},
		{"by run", EventFilter{RunID: "r2"}, []string{"second", "third"}},
		{"by time range", EventFilter{Since: &since, Until: &until}, []string{"second", "third"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := log.Read(tt.filter)
			if err != nil {
				t.Fatalf("reading events: %v", err)
			}
			var got []string
			for _, e := range result {
				got = append(got, e.Message)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)

	if err := log.Write(Event{Time: time.Now().UTC(), Level: LevelInfo, Type: "release.preview"}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("not json\n\n")
	_ = f.Close()

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("expected 1 valid event, got %d", len(result))
	}
}

func TestNewJSONLEventLog_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache", "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer log.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestRunLogger_StampsRunIDAndLevel(t *testing.T) {
	log, _ := newTestLog(t)
	rl := NewRunLogger(log)

	if rl.RunID() == "" {
		t.Fatal("expected a run ID")
	}
	if other := NewRunLogger(log); other.RunID() == rl.RunID() {
		t.Error("run IDs should be unique per logger")
	}

	if err := rl.LogEvent("release.analyzed", map[string]any{"version": "v1.0.0"}); err != nil {
		t.Fatal(err)
	}
	if err := rl.LogWarning("release.uncertain", nil); err != nil {
		t.Fatal(err)
	}
	if err := rl.LogError("release.failed", map[string]any{"step": "create tag"}); err != nil {
		t.Fatal(err)
	}

	result, err := log.Read(EventFilter{RunID: rl.RunID()})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 events, got %d", len(result))
	}
	wantLevels := []string{LevelInfo, LevelWarn, LevelError}
	for i, e := range result {
		if e.Level != wantLevels[i] {
			t.Errorf("event %d level = %s, want %s", i, e.Level, wantLevels[i])
		}
		if e.Message != e.Type {
			t.Errorf("event %d message = %q, want type", i, e.Message)
		}
	}
}
