package chapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"00:00:01", 1000, false},
		{"00:01:30", 90000, false},
		{"01:00:00", 3600000, false},
		{"10:59:59", 39599000, false},
		{" 00:05:00 ", 300000, false},
		{"1:30", 0, true},
		{"00:60:00", 0, true},
		{"00:00:60", 0, true},
		{"00:00:-1", 0, true},
		{"abc", 0, true},
		{"00:00:1a", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimecode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimecode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimecode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chapters.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const header = "entry_id,timecode,chapter_title,chapter_description,search_tags\n"

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, header+
		"0_abc,00:01:00,Introduction,Opening remarks,intro\n"+
		"0_abc,00:15:30,Main topic,,\n")

	rows, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].StartTime != 60000 {
		t.Errorf("StartTime = %d, want 60000", rows[0].StartTime)
	}
	if rows[1].Title != "Main topic" || rows[1].Description != "" {
		t.Errorf("row 2 = %+v", rows[1])
	}
}

func TestLoadPlanBadTimecode(t *testing.T) {
	path := writePlan(t, header+"0_abc,xx:yy:zz,Broken,,\n")
	_, err := LoadPlan(path)
	if err == nil {
		t.Fatal("LoadPlan() error = nil for bad timecode")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %v should name the failing line", err)
	}
}

func TestLoadPlanMissingTitle(t *testing.T) {
	path := writePlan(t, header+"0_abc,00:01:00,,,\n")
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("LoadPlan() error = nil for empty title")
	}
}

func TestLoadPlanMissingColumn(t *testing.T) {
	path := writePlan(t, "entry_id,timecode\n0_abc,00:01:00\n")
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("LoadPlan() error = nil for missing columns")
	}
}

func TestLoadPlanEmpty(t *testing.T) {
	path := writePlan(t, header)
	if _, err := LoadPlan(path); err == nil {
		t.Fatal("LoadPlan() error = nil for plan with no rows")
	}
}
