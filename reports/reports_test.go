package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kadmin/kaltura"
)

func TestParseInterval(t *testing.T) {
	for _, s := range []string{"yearly", "monthly", "weekly", "daily"} {
		if _, err := ParseInterval(s); err != nil {
			t.Errorf("ParseInterval(%q) error = %v", s, err)
		}
	}
	if _, err := ParseInterval("hourly"); err == nil {
		t.Error("unknown interval must be rejected")
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestChunksMonthly(t *testing.T) {
	windows := Chunks(date(2024, time.January, 15), date(2024, time.March, 10), IntervalMonthly)
	want := []Window{
		{date(2024, time.January, 15), date(2024, time.January, 31)},
		{date(2024, time.February, 1), date(2024, time.February, 29)},
		{date(2024, time.March, 1), date(2024, time.March, 10)},
	}
	if len(windows) != len(want) {
		t.Fatalf("got %d windows, want %d: %v", len(windows), len(want), windows)
	}
	for i, w := range want {
		if !windows[i].From.Equal(w.From) || !windows[i].To.Equal(w.To) {
			t.Errorf("window %d = %v..%v, want %v..%v", i, windows[i].From, windows[i].To, w.From, w.To)
		}
	}
}

func TestChunksYearly(t *testing.T) {
	windows := Chunks(date(2022, time.June, 1), date(2024, time.February, 1), IntervalYearly)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3: %v", len(windows), windows)
	}
	if !windows[0].To.Equal(date(2022, time.December, 31)) {
		t.Errorf("first window ends %v, want 2022-12-31", windows[0].To)
	}
	if !windows[1].From.Equal(date(2023, time.January, 1)) || !windows[1].To.Equal(date(2023, time.December, 31)) {
		t.Errorf("second window = %v..%v", windows[1].From, windows[1].To)
	}
	if !windows[2].To.Equal(date(2024, time.February, 1)) {
		t.Errorf("last window ends %v, want clipped to 2024-02-01", windows[2].To)
	}
}

func TestChunksWeeklyAndDaily(t *testing.T) {
	weekly := Chunks(date(2024, time.May, 1), date(2024, time.May, 20), IntervalWeekly)
	if len(weekly) != 3 {
		t.Fatalf("weekly: got %d windows, want 3", len(weekly))
	}
	if !weekly[0].To.Equal(date(2024, time.May, 7)) || !weekly[1].From.Equal(date(2024, time.May, 8)) {
		t.Errorf("weekly windows not contiguous: %v", weekly)
	}
	daily := Chunks(date(2024, time.May, 1), date(2024, time.May, 3), IntervalDaily)
	if len(daily) != 3 {
		t.Fatalf("daily: got %d windows, want 3", len(daily))
	}
	if !daily[1].From.Equal(daily[1].To) {
		t.Errorf("daily window must be a single day: %v", daily[1])
	}
}

func TestChunksSingleDayRange(t *testing.T) {
	windows := Chunks(date(2024, time.May, 5), date(2024, time.May, 5), IntervalMonthly)
	if len(windows) != 1 || !windows[0].From.Equal(windows[0].To) {
		t.Fatalf("got %v, want one single-day window", windows)
	}
}

func TestSourceFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.org/p/101/sp/10100/serveFlavor/entryId/0_abc/v/2/flavorId/0_src/fileName/lecture_01.mp4/name/a.mp4", "lecture_01.mp4"},
		{"https://cdn.example.org/fileName/video.mov?ks=abc", "video.mov"},
		{"https://cdn.example.org/p/101/raw/entry/0_abc", ""},
	}
	for _, tt := range tests {
		if got := SourceFilename(tt.url); got != tt.want {
			t.Errorf("SourceFilename(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{0, "0:00:00"},
		{-5, "0:00:00"},
		{59, "0:00:59"},
		{61, "0:01:01"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{360000, "100:00:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.sec); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestClassifyPolicy(t *testing.T) {
	asOf := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	yearsAgo := func(years float64) int64 {
		return asOf - int64(years*secPerYear)
	}
	tests := []struct {
		name      string
		createdAt int64
		lastPlay  int64
		want      string
	}{
		{"old and never played", yearsAgo(5), 0, PolicyFourYear},
		{"old and stale", yearsAgo(5), yearsAgo(4.5), PolicyFourYear},
		{"old but recently played", yearsAgo(5), yearsAgo(1), ""},
		{"old with mid gap", yearsAgo(5), yearsAgo(3), ""},
		{"mid-age never played", yearsAgo(3), 0, PolicyTwoYear},
		{"mid-age stale", yearsAgo(3), yearsAgo(2.5), PolicyTwoYear},
		{"mid-age recently played", yearsAgo(3), yearsAgo(1), ""},
		{"too young", yearsAgo(1), 0, ""},
		{"exactly two years", yearsAgo(2), 0, PolicyTwoYear},
		{"exactly four years", yearsAgo(4), 0, PolicyFourYear},
	}
	for _, tt := range tests {
		if got := ClassifyPolicy(tt.createdAt, tt.lastPlay, asOf); got != tt.want {
			t.Errorf("%s: ClassifyPolicy = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseKMCDate(t *testing.T) {
	if got, err := parseKMCDate("1600000000"); err != nil || got != 1600000000 {
		t.Errorf("epoch: got %d, %v", got, err)
	}
	want := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.Local).Unix()
	if got, err := parseKMCDate("2024-03-05 14:30:00"); err != nil || got != want {
		t.Errorf("datetime: got %d, %v, want %d", got, err, want)
	}
	wantDay := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local).Unix()
	if got, err := parseKMCDate("03/05/2024"); err != nil || got != wantDay {
		t.Errorf("US date: got %d, %v, want %d", got, err, wantDay)
	}
	if _, err := parseKMCDate(""); err == nil {
		t.Error("empty date must fail")
	}
	if _, err := parseKMCDate("yesterday"); err == nil {
		t.Error("junk date must fail")
	}
}

func TestPickColumn(t *testing.T) {
	rows := []map[string]string{{"entry id": "0_a", "plays": "3"}}
	col, err := pickColumn(rows, "entry_id", "entry id", "id")
	if err != nil || col != "entry id" {
		t.Errorf("pickColumn = %q, %v", col, err)
	}
	if _, err := pickColumn(rows, "owner"); err == nil {
		t.Error("missing column must fail")
	}
	if _, err := pickColumn(nil, "plays"); err == nil {
		t.Error("empty input must fail")
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *kaltura.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := kaltura.DefaultConfig()
	cfg.ServiceURL = server.URL
	cfg.RPS = 1000
	client := kaltura.New(cfg)
	client.SetKS("test-ks")
	return client
}

func TestReplacementsKeepsOnlyLaterUpdates(t *testing.T) {
	entries := []kaltura.MediaEntry{
		{ID: "0_aaa", Name: "Replaced twice", UserID: "alice", CreatorID: "alice", CreatedAt: 1000},
		{ID: "0_bbb", Name: "Never replaced", UserID: "bob", CreatedAt: 1000},
	}
	trails := map[string]string{
		"0_aaa": `{"objects":[
			{"id":1,"entryId":"0_aaa","userId":"uploader","entryPoint":"media::updatecontent","createdAt":900},
			{"id":2,"entryId":"0_aaa","userId":"carol","entryPoint":"media::updatecontent","createdAt":2000},
			{"id":3,"entryId":"0_aaa","userId":"dave","entryPoint":"baseentry::update","createdAt":3000},
			{"id":4,"entryId":"0_aaa","userId":"erin","entryPoint":"media::updatecontent","createdAt":4000}
		],"totalCount":4}`,
		"0_bbb": `{"objects":[
			{"id":5,"entryId":"0_bbb","userId":"bob","entryPoint":"media::updatecontent","createdAt":1000}
		],"totalCount":1}`,
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.FormValue("service") + "." + r.FormValue("action"); got != "audit_audittrail.list" {
			t.Errorf("unexpected API call %s", got)
		}
		fmt.Fprint(w, trails[r.FormValue("filter:objectIdEqual")])
	})

	dir := t.TempDir()
	res, err := Replacements(t.Context(), client, entries, dir)
	if err != nil {
		t.Fatalf("Replacements() error = %v", err)
	}
	if res.EntriesWithReplacements != 1 || res.Replacements != 2 {
		t.Errorf("got %d entries, %d replacements, want 1 and 2", res.EntriesWithReplacements, res.Replacements)
	}

	rows := readCSV(t, res.ReportPath)
	if len(rows) != 4 {
		t.Fatalf("report has %d rows, want header + 3", len(rows))
	}
	if rows[1][2] != "creation" || rows[1][3] != "alice" {
		t.Errorf("creation row = %v", rows[1])
	}
	if rows[2][2] != "replacement" || rows[2][3] != "carol" {
		t.Errorf("first replacement row = %v", rows[2])
	}
	if rows[3][3] != "erin" {
		t.Errorf("second replacement row = %v", rows[3])
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return rows
}

func TestRetentionClassification(t *testing.T) {
	asOf := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	created := func(years float64) string {
		return fmt.Sprintf("%d", asOf.Unix()-int64(years*secPerYear))
	}
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "kmc.csv")
	content := "entry id,name,media type,owner,status,created on,plays,duration\n" +
		"0_old,Old lecture,Video,alice,ready," + created(5) + ",0,120\n" +
		"0_mid,Mid lecture,Video,bob,ready," + created(3) + ",0,60\n" +
		"0_new,New lecture,Video,carol,ready," + created(1) + ",0,30\n" +
		"0_err,Broken upload,Video,dan,error," + created(3) + ",0,0\n" +
		"0_ply,Played lecture,Video,eve,ready," + created(5) + ",12,90\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lastPlay := asOf.Unix() - int64(4.5*secPerYear)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("entryId") != "0_ply" {
			t.Errorf("lastPlayedAt lookup for %q, want only 0_ply", r.FormValue("entryId"))
		}
		fmt.Fprintf(w, `{"id":"0_ply","objectType":"KalturaMediaEntry","lastPlayedAt":%d}`, lastPlay)
	})

	res, err := Retention(t.Context(), client, RetentionOptions{
		CSVPath:    csvPath,
		AsOf:       asOf,
		Workers:    2,
		ReportsDir: dir,
	})
	if err != nil {
		t.Fatalf("Retention() error = %v", err)
	}
	if res.ByPolicy[PolicyFourYear] != 2 {
		t.Errorf("4year count = %d, want 2 (never played + stale playback)", res.ByPolicy[PolicyFourYear])
	}
	if res.ByPolicy[PolicyTwoYear] != 1 {
		t.Errorf("2year count = %d, want 1", res.ByPolicy[PolicyTwoYear])
	}
	if res.ByPolicy[PolicyNonReady] != 1 {
		t.Errorf("nonready count = %d, want 1", res.ByPolicy[PolicyNonReady])
	}
	if res.Candidates != 4 {
		t.Errorf("candidates = %d, want 4", res.Candidates)
	}
}

func TestRetentionFlavorEnrichment(t *testing.T) {
	asOf := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	created := func(years float64) string {
		return fmt.Sprintf("%d", asOf.Unix()-int64(years*secPerYear))
	}
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "kmc.csv")
	content := "entry id,name,media type,owner,status,created on,plays,duration\n" +
		"0_old,Old lecture,Video,alice,ready," + created(5) + ",0,120\n" +
		"0_mid,Mid lecture,Video,bob,ready," + created(3) + ",0,60\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	flavorsFor := map[string]string{
		// Source plus one rendition. sizeInBytes zero on the rendition
		// exercises the kilobyte fallback.
		"0_old": `{"objects":[
			{"id":"1_src","entryId":"0_old","isOriginal":true,"tags":"source","sizeInBytes":5000},
			{"id":"1_mp4","entryId":"0_old","tags":"web,mpeg4","size":3,"sizeInBytes":0}
		],"totalCount":2}`,
		"0_mid": `{"objects":[
			{"id":"1_src2","entryId":"0_mid","isOriginal":true,"tags":"source","sizeInBytes":4000},
			{"id":"1_mp42","entryId":"0_mid","tags":"web,mpeg4","sizeInBytes":1000}
		],"totalCount":2}`,
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("service")+"."+r.FormValue("action") != "flavorasset.list" {
			t.Errorf("unexpected API call %s.%s", r.FormValue("service"), r.FormValue("action"))
			return
		}
		fmt.Fprint(w, flavorsFor[r.FormValue("filter:entryIdEqual")])
	})

	res, err := Retention(t.Context(), client, RetentionOptions{
		CSVPath:     csvPath,
		AsOf:        asOf,
		Workers:     2,
		WithFlavors: true,
		ReportsDir:  dir,
	})
	if err != nil {
		t.Fatalf("Retention() error = %v", err)
	}
	rows := readCSV(t, res.ReportPath)
	header := rows[0]
	if got := header[len(header)-2] + "," + header[len(header)-1]; got != "number_of_flavors,bytes_saved" {
		t.Fatalf("trailing columns = %q, want number_of_flavors,bytes_saved", got)
	}
	byEntry := map[string][]string{}
	for _, row := range rows[1:] {
		byEntry[row[1]] = row
	}
	// 4-year policy purges everything, source included.
	if row := byEntry["0_old"]; row[len(row)-2] != "2" || row[len(row)-1] != "8072" {
		t.Errorf("0_old flavors = %s, bytes_saved = %s, want 2 and 8072", row[len(row)-2], row[len(row)-1])
	}
	// 2-year policy keeps the source flavor, so it is counted but not saved.
	if row := byEntry["0_mid"]; row[len(row)-2] != "2" || row[len(row)-1] != "1000" {
		t.Errorf("0_mid flavors = %s, bytes_saved = %s, want 2 and 1000", row[len(row)-2], row[len(row)-1])
	}
}
