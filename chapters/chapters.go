// Package chapters adds chapter markers to entries from a CSV plan.
package chapters

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"kadmin/kaltura"
	"kadmin/report"
)

// Row is one chapter to create, parsed from the input CSV.
type Row struct {
	EntryID     string
	StartTime   int // milliseconds
	Title       string
	Description string
	Tags        string
}

// requiredColumns of the input CSV.
var requiredColumns = []string{"entry_id", "timecode", "chapter_title", "chapter_description", "search_tags"}

// ParseTimecode converts HH:MM:SS to milliseconds.
func ParseTimecode(tc string) (int, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timecode %q is not HH:MM:SS", tc)
	}
	var units [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("timecode %q is not HH:MM:SS", tc)
		}
		units[i] = n
	}
	if units[1] > 59 || units[2] > 59 {
		return 0, fmt.Errorf("timecode %q has minutes or seconds over 59", tc)
	}
	return (units[0]*3600 + units[1]*60 + units[2]) * 1000, nil
}

// LoadPlan reads and validates the chapter CSV. Rows with bad timecodes
// or missing fields fail the whole load so a partial plan never runs.
func LoadPlan(path string) ([]Row, error) {
	records, err := report.Read(path, requiredColumns...)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		line := i + 2 // header is line 1
		if record["entry_id"] == "" {
			return nil, fmt.Errorf("line %d: entry_id is empty", line)
		}
		if record["chapter_title"] == "" {
			return nil, fmt.Errorf("line %d: chapter_title is empty", line)
		}
		start, err := ParseTimecode(record["timecode"])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, Row{
			EntryID:     record["entry_id"],
			StartTime:   start,
			Title:       record["chapter_title"],
			Description: record["chapter_description"],
			Tags:        record["search_tags"],
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s contains no chapter rows", path)
	}
	return rows, nil
}

// Result summarizes one run.
type Result struct {
	Added      int
	Failed     int
	ReportPath string
}

// Add creates the chapters in rows. A failing row is logged and reported
// but does not stop the rest of the plan.
func Add(ctx context.Context, client *kaltura.Client, rows []Row, reportsDir string) (*Result, error) {
	out := report.NewWriter("entry_id", "timecode_ms", "chapter_title", "cue_point_id", "status")
	res := &Result{}

	for _, row := range rows {
		cue, err := client.AddChapter(ctx, kaltura.NewChapter{
			EntryID:     row.EntryID,
			StartTime:   row.StartTime,
			Title:       row.Title,
			Description: row.Description,
			Tags:        row.Tags,
		})
		if err != nil {
			log.Printf("add chapter %q to %s: %v", row.Title, row.EntryID, err)
			out.Append(row.EntryID, strconv.Itoa(row.StartTime), row.Title, "", "FAILED: "+err.Error())
			res.Failed++
			continue
		}
		out.Append(row.EntryID, strconv.Itoa(row.StartTime), row.Title, cue.ID, "ADDED")
		res.Added++
	}

	path, err := out.Save(reportsDir, "chapters_added")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}
