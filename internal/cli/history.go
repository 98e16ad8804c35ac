package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/release-tag/internal/observability"
)

var (
	historyType  string
	historySince string
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded release events",
	Long: `Show events recorded by past release runs, oldest first.

Filter by event type (e.g. --type release.tag_created), by run ID, or by a
time window such as --since 7d or --since 24h.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not available")
		}

		filter := observability.EventFilter{Type: historyType, RunID: historyRun}
		if historySince != "" {
			since, err := parseSince(historySince)
			if err != nil {
				return err
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}

		for _, e := range events {
			run := e.RunID
			if len(run) > 8 {
				run = run[:8]
			}
			fmt.Fprintf(out, "%s  %-5s  %-8s  %-26s %s\n",
				e.Time.Local().Format("2006-01-02 15:04:05"), e.Level, run, e.Type, formatEventData(e.Data))
		}
		return nil
	},
}

// formatEventData renders event data as sorted key=value pairs.
func formatEventData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(pairs, " ")
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(strings.TrimSuffix(s, "d"), "%d", &days); err != nil || days <= 0 {
			return time.Time{}, fmt.Errorf("invalid duration %q: use a format like 7d, 30d, or 24h", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: use a format like 7d, 30d, or 24h", s)
	}
	return now.Add(-d), nil
}

func init() {
	historyCmd.Flags().StringVar(&historyType, "type", "", "Only show events of this type")
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only show events newer than this (e.g. 7d, 24h)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Only show events of this run ID")
	rootCmd.AddCommand(historyCmd)
}
