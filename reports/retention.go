package reports

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kadmin/kaltura"
	"kadmin/report"
)

// Retention policies.
const (
	PolicyTwoYear  = "2year"
	PolicyFourYear = "4year"
	PolicyNonReady = "nonready"
)

const (
	secPerYear = 365 * 24 * 3600
	sec2Y      = 2 * secPerYear
	sec4Y      = 4 * secPerYear
)

// ClassifyPolicy returns the retention policy an entry falls under as of
// asOf, or "" when it is out of scope. lastPlay is zero for never-played
// entries. The 4-year rule needs both age and playback gap past four
// years; the 2-year rule covers entries between two and four years old
// that nobody played for two years, never-played included.
func ClassifyPolicy(createdAt, lastPlay, asOf int64) string {
	age := asOf - createdAt
	var lastGap int64 = -1
	if lastPlay > 0 {
		lastGap = asOf - lastPlay
	}
	if age >= sec4Y && (lastGap < 0 || lastGap >= sec4Y) {
		return PolicyFourYear
	}
	if age >= sec2Y && age < sec4Y && (lastGap < 0 || lastGap >= sec2Y) {
		return PolicyTwoYear
	}
	return ""
}

// candidate is one KMC export row plus what we resolve about it.
type candidate struct {
	entryID   string
	name      string
	mediaType string
	owner     string
	status    string
	createdAt int64
	updated   string
	duration  int
	plays     int
}

// kmcDateLayouts are the timestamp shapes KMC exports show up with.
var kmcDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2, 2006 3:04 PM",
}

func parseKMCDate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty date")
	}
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil && epoch > 1e8 {
		return epoch, nil
	}
	for _, layout := range kmcDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date %q", s)
}

// pickColumn returns the first candidate header present in the rows.
func pickColumn(rows []map[string]string, candidates ...string) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("input has no rows")
	}
	for _, name := range candidates {
		if _, ok := rows[0][name]; ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("no column named any of: %s", strings.Join(candidates, ", "))
}

// flavorStats returns number_of_flavors and bytes_saved columns for one
// candidate. Under the 2-year policy the source flavor survives the
// purge, so its size does not count toward savings. Entries with no
// media, and lookup failures, report zeros.
func flavorStats(ctx context.Context, client *kaltura.Client, c candidate, policy string) []string {
	if strings.Contains(strings.ToLower(c.status), "no media") {
		return []string{"0", "0"}
	}
	assets, err := client.ListFlavors(ctx, c.entryID)
	if err != nil {
		log.Printf("flavor list failed for %s: %v", c.entryID, err)
		return []string{"0", "0"}
	}
	var total int64
	for _, a := range assets {
		size := a.Bytes()
		if size <= 0 {
			continue
		}
		if policy == PolicyTwoYear && isSourceFlavor(a) {
			continue
		}
		total += size
	}
	return []string{strconv.Itoa(len(assets)), strconv.FormatInt(total, 10)}
}

func isSourceFlavor(a kaltura.FlavorAsset) bool {
	return a.IsOriginal || strings.Contains(strings.ToLower(a.Tags), "source")
}

// RetentionOptions controls a retention run.
type RetentionOptions struct {
	// CSVPath is the KMC export listing the candidate entries.
	CSVPath string
	// AsOf is the report date the policies are evaluated against;
	// zero means now.
	AsOf time.Time
	// Workers bounds the parallel lastPlayedAt lookups.
	Workers int
	// WithFlavors adds number_of_flavors and bytes_saved columns,
	// at the cost of one flavorasset.list call per candidate.
	WithFlavors bool
	ReportsDir  string
}

// RetentionResult summarizes one run.
type RetentionResult struct {
	Candidates  int
	ByPolicy    map[string]int
	DurationSec map[string]int
	ReportPath  string
	SummaryPath string
}

// Retention classifies a KMC export against the retention policies.
// Zero-play rows classify on age alone; played rows need lastPlayedAt,
// fetched per entry through a bounded pool since exports run to tens of
// thousands of rows.
func Retention(ctx context.Context, client *kaltura.Client, opts RetentionOptions) (*RetentionResult, error) {
	rows, err := report.Read(opts.CSVPath)
	if err != nil {
		return nil, err
	}
	idCol, err := pickColumn(rows, "entry id", "id", "entry_id")
	if err != nil {
		return nil, err
	}
	createdCol, err := pickColumn(rows, "created on", "created", "created_at", "created at")
	if err != nil {
		return nil, err
	}
	playsCol, err := pickColumn(rows, "plays", "number of plays", "total plays")
	if err != nil {
		return nil, err
	}
	nameCol, _ := pickColumn(rows, "name", "title", "entry name")
	ownerCol, _ := pickColumn(rows, "owner", "owner id", "creator")
	statusCol, _ := pickColumn(rows, "status")
	typeCol, _ := pickColumn(rows, "media type", "type")
	durationCol, _ := pickColumn(rows, "duration", "duration seconds", "duration_sec")
	updatedCol, _ := pickColumn(rows, "last update date", "updated", "last updated")

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOfEpoch := asOf.Unix()

	var direct, needLookup []candidate
	skipped := 0
	for i, row := range rows {
		created, err := parseKMCDate(row[createdCol])
		if err != nil {
			log.Printf("line %d: %v, skipped", i+2, err)
			skipped++
			continue
		}
		// Younger than two years can't match any policy; drop early.
		if created > asOfEpoch-sec2Y {
			continue
		}
		plays, _ := strconv.Atoi(strings.TrimSpace(row[playsCol]))
		duration, _ := strconv.Atoi(strings.TrimSpace(row[durationCol]))
		c := candidate{
			entryID:   row[idCol],
			name:      row[nameCol],
			mediaType: row[typeCol],
			owner:     row[ownerCol],
			status:    row[statusCol],
			createdAt: created,
			updated:   row[updatedCol],
			duration:  duration,
			plays:     plays,
		}
		if c.status != "" && !strings.EqualFold(c.status, "ready") {
			direct = append(direct, c) // nonready, no lookup needed
			continue
		}
		if plays == 0 {
			direct = append(direct, c)
		} else {
			needLookup = append(needLookup, c)
		}
	}

	columns := []string{"policy", "entry_id", "entry_name", "media_type",
		"created_on", "last_updated", "duration_seconds", "plays", "status",
		"last_played_at", "reason"}
	if opts.WithFlavors {
		columns = append(columns, "number_of_flavors", "bytes_saved")
	}
	out := report.NewWriter(columns...)
	res := &RetentionResult{ByPolicy: map[string]int{}, DurationSec: map[string]int{}}

	var mu sync.Mutex
	appendCandidate := func(c candidate, policy, lastPlayed, reason string, extra ...string) {
		mu.Lock()
		defer mu.Unlock()
		row := []string{policy, c.entryID, c.name, c.mediaType,
			time.Unix(c.createdAt, 0).Format("2006-01-02"),
			c.updated, strconv.Itoa(c.duration), strconv.Itoa(c.plays),
			c.status, lastPlayed, reason}
		out.Append(append(row, extra...)...)
		res.Candidates++
		res.ByPolicy[policy]++
		res.DurationSec[policy] += c.duration
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 10
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, c := range direct {
		policy, reason := "", ""
		switch {
		case c.status != "" && !strings.EqualFold(c.status, "ready"):
			policy, reason = PolicyNonReady, "nonready"
		default:
			policy, reason = ClassifyPolicy(c.createdAt, 0, asOfEpoch), "zero_plays"
		}
		if policy == "" {
			continue
		}
		if !opts.WithFlavors {
			appendCandidate(c, policy, "", reason)
			continue
		}
		g.Go(func() error {
			appendCandidate(c, policy, "", reason, flavorStats(gctx, client, c, policy)...)
			return nil
		})
	}

	for _, c := range needLookup {
		g.Go(func() error {
			entry, err := client.GetEntry(gctx, c.entryID)
			if err != nil {
				if kaltura.IsNotFound(err) {
					log.Printf("%s not found, skipped", c.entryID)
					return nil
				}
				return fmt.Errorf("look up %s: %w", c.entryID, err)
			}
			policy := ClassifyPolicy(c.createdAt, entry.LastPlayedAt, asOfEpoch)
			if policy == "" {
				return nil
			}
			lastPlayed := ""
			if entry.LastPlayedAt > 0 {
				lastPlayed = time.Unix(entry.LastPlayedAt, 0).Format("2006-01-02")
			}
			var extra []string
			if opts.WithFlavors {
				extra = flavorStats(gctx, client, c, policy)
			}
			appendCandidate(c, policy, lastPlayed, "date_watched", extra...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if skipped > 0 {
		log.Printf("%d rows skipped for unparseable dates", skipped)
	}

	path, err := out.Save(opts.ReportsDir, "retention_candidates")
	if err != nil {
		return res, err
	}
	res.ReportPath = path

	summary := report.NewWriter("policy", "entries", "duration_sec", "duration")
	policies := make([]string, 0, len(res.ByPolicy))
	for policy := range res.ByPolicy {
		policies = append(policies, policy)
	}
	sort.Strings(policies)
	for _, policy := range policies {
		summary.Append(policy, strconv.Itoa(res.ByPolicy[policy]),
			strconv.Itoa(res.DurationSec[policy]), FormatDuration(res.DurationSec[policy]))
	}
	summaryPath, err := summary.Save(opts.ReportsDir, "retention_summary")
	if err != nil {
		return res, err
	}
	res.SummaryPath = summaryPath
	return res, nil
}
