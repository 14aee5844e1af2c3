// Package reports builds the CSV reporting jobs: inventory counts,
// retention candidates and content replacement audits.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"kadmin/kaltura"
	"kadmin/report"
)

// Interval is the chunking granularity for inventory windows.
type Interval string

const (
	IntervalYearly  Interval = "yearly"
	IntervalMonthly Interval = "monthly"
	IntervalWeekly  Interval = "weekly"
	IntervalDaily   Interval = "daily"
)

// ParseInterval validates an interval flag value.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalYearly, IntervalMonthly, IntervalWeekly, IntervalDaily:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unknown interval %q: use yearly, monthly, weekly or daily", s)
}

// Window is one createdAt chunk, inclusive on both ends.
type Window struct {
	From time.Time
	To   time.Time
}

// Chunks splits [start, end] into calendar windows of the interval. The
// last window is clipped to end. Working in day granularity keeps the
// windows disjoint: each one covers whole days.
func Chunks(start, end time.Time, interval Interval) []Window {
	start = dayStart(start)
	end = dayStart(end)
	var windows []Window
	for current := start; !current.After(end); {
		var boundary time.Time
		switch interval {
		case IntervalYearly:
			boundary = time.Date(current.Year(), 12, 31, 0, 0, 0, 0, current.Location())
		case IntervalWeekly:
			boundary = current.AddDate(0, 0, 6)
		case IntervalDaily:
			boundary = current
		default: // monthly
			firstOfNext := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, current.Location()).AddDate(0, 1, 0)
			boundary = firstOfNext.AddDate(0, 0, -1)
		}
		if boundary.After(end) {
			boundary = end
		}
		windows = append(windows, Window{From: current, To: boundary})
		current = boundary.AddDate(0, 0, 1)
	}
	return windows
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sourceFilenamePattern pulls the original upload name out of a flavor
// download URL.
var sourceFilenamePattern = regexp.MustCompile(`/fileName/([^/?]+)`)

// SourceFilename extracts the original filename from a download URL,
// empty when the URL carries none.
func SourceFilename(url string) string {
	match := sourceFilenamePattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// FormatDuration renders seconds as H:MM:SS the way spreadsheets expect.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00:00"
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds/60)%60, seconds%60)
}

// InventoryOptions controls an inventory run.
type InventoryOptions struct {
	// Tag or CategoryID scope the counted entries; at most one.
	Tag        string
	CategoryID int
	// Start and End bound createdAt, inclusive.
	Start, End time.Time
	Interval   Interval
	// WithSourceNames also resolves each entry's original filename, one
	// extra API call per entry.
	WithSourceNames bool
	ReportsDir      string
}

// InventoryResult summarizes one run.
type InventoryResult struct {
	Entries     int
	DurationSec int
	SummaryPath string
	DetailPath  string
}

// Inventory counts entries and total duration per window and writes a
// summary CSV plus a per-entry detail CSV. Windows keep each query under
// the server's 10,000-match cap; if a single window still exceeds it the
// run stops and suggests a smaller interval.
func Inventory(ctx context.Context, client *kaltura.Client, opts InventoryOptions) (*InventoryResult, error) {
	if opts.Interval == "" {
		opts.Interval = IntervalMonthly
	}
	if !opts.Start.Before(opts.End) && !opts.Start.Equal(opts.End) {
		return nil, fmt.Errorf("start date %s is after end date %s",
			opts.Start.Format("2006-01-02"), opts.End.Format("2006-01-02"))
	}

	summary := report.NewWriter("window_start", "window_end", "entries", "duration_sec", "duration")
	detail := report.NewWriter("entry_id", "name", "duration_sec", "duration",
		"created", "updated", "owner", "source_filename")
	res := &InventoryResult{}

	for _, window := range Chunks(opts.Start, opts.End, opts.Interval) {
		filter := kaltura.EntryFilter{
			TagsLike:              opts.Tag,
			CreatedAtGreaterEqual: window.From.Unix(),
			CreatedAtLessEqual:    window.To.Unix() + 86399, // include the last day
			OrderBy:               "+createdAt",
		}
		if opts.CategoryID != 0 {
			filter.CategoryAncestorIDIn = strconv.Itoa(opts.CategoryID)
		}

		entries, err := client.ListAllEntries(ctx, filter)
		if err != nil {
			if errors.Is(err, kaltura.ErrMaxMatches) {
				return res, fmt.Errorf("window %s to %s exceeds the match cap, rerun with a smaller interval: %w",
					window.From.Format("2006-01-02"), window.To.Format("2006-01-02"), err)
			}
			return res, fmt.Errorf("list window %s: %w", window.From.Format("2006-01-02"), err)
		}

		windowDuration := 0
		for _, entry := range entries {
			windowDuration += entry.Duration
			sourceName := ""
			if opts.WithSourceNames {
				sourceName = resolveSourceName(ctx, client, entry.ID)
			}
			detail.Append(entry.ID, entry.Name,
				strconv.Itoa(entry.Duration), FormatDuration(entry.Duration),
				time.Unix(entry.CreatedAt, 0).Format("2006-01-02"),
				time.Unix(entry.UpdatedAt, 0).Format("2006-01-02"),
				entry.UserID, sourceName)
		}
		summary.Append(window.From.Format("2006-01-02"), window.To.Format("2006-01-02"),
			strconv.Itoa(len(entries)), strconv.Itoa(windowDuration), FormatDuration(windowDuration))
		res.Entries += len(entries)
		res.DurationSec += windowDuration
		log.Printf("%s to %s: %d entries, %s",
			window.From.Format("2006-01-02"), window.To.Format("2006-01-02"),
			len(entries), FormatDuration(windowDuration))
	}

	summaryPath, err := summary.Save(opts.ReportsDir, "inventory_summary")
	if err != nil {
		return res, err
	}
	detailPath, err := detail.Save(opts.ReportsDir, "inventory_detail")
	if err != nil {
		return res, err
	}
	res.SummaryPath = summaryPath
	res.DetailPath = detailPath
	return res, nil
}

// resolveSourceName looks up the original filename via the source
// flavor's download URL. Failures degrade to an empty cell.
func resolveSourceName(ctx context.Context, client *kaltura.Client, entryID string) string {
	assets, err := client.ListFlavors(ctx, entryID)
	if err != nil {
		return ""
	}
	for _, asset := range assets {
		if !asset.IsOriginal {
			continue
		}
		url, err := client.FlavorURL(ctx, asset.ID)
		if err != nil {
			return ""
		}
		return SourceFilename(url)
	}
	return ""
}
