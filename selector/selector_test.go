package selector

import (
	"testing"

	"kadmin/kaltura"
)

func TestSelectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		wantErr bool
	}{
		{"none", Selection{}, true},
		{"ids only", Selection{IDs: "0_a,0_b"}, false},
		{"csv only", Selection{CSVPath: "in.csv"}, false},
		{"category only", Selection{CategoryID: 42}, false},
		{"tag only", Selection{Tag: "archive"}, false},
		{"owner only", Selection{Owner: "prof@example.edu"}, false},
		{"ids and tag", Selection{IDs: "0_a", Tag: "archive"}, true},
		{"csv and category", Selection{CSVPath: "in.csv", CategoryID: 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEntryIDsFromList(t *testing.T) {
	ids, err := EntryIDs(t.Context(), nil, Selection{IDs: " 0_a, 0_b ,0_a,, 0_c"})
	if err != nil {
		t.Fatalf("EntryIDs() error = %v", err)
	}
	want := []string{"0_a", "0_b", "0_c"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestEntryIDsEmptyList(t *testing.T) {
	if _, err := EntryIDs(t.Context(), nil, Selection{IDs: " , "}); err == nil {
		t.Error("EntryIDs() error = nil for blank id list")
	}
}

func TestParentsFirst(t *testing.T) {
	entries := []kaltura.MediaEntry{
		{ID: "0_grandchild", ParentEntryID: "0_child"},
		{ID: "0_child", ParentEntryID: "0_parent"},
		{ID: "0_parent"},
		{ID: "0_loner"},
	}

	sorted := ParentsFirst(entries)

	pos := make(map[string]int, len(sorted))
	for i, e := range sorted {
		pos[e.ID] = i
	}
	if pos["0_parent"] > pos["0_child"] {
		t.Error("parent sorted after its child")
	}
	if pos["0_child"] > pos["0_grandchild"] {
		t.Error("child sorted after its grandchild")
	}
	if len(sorted) != len(entries) {
		t.Errorf("got %d entries, want %d", len(sorted), len(entries))
	}
}

func TestParentsFirstCycleTerminates(t *testing.T) {
	entries := []kaltura.MediaEntry{
		{ID: "0_a", ParentEntryID: "0_b"},
		{ID: "0_b", ParentEntryID: "0_a"},
	}
	// Broken parent data must not hang the sort.
	if got := ParentsFirst(entries); len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}

func TestParentsFirstStable(t *testing.T) {
	entries := []kaltura.MediaEntry{
		{ID: "0_x"},
		{ID: "0_y"},
		{ID: "0_z"},
	}
	sorted := ParentsFirst(entries)
	for i, e := range entries {
		if sorted[i].ID != e.ID {
			t.Errorf("equal-depth order changed: %v", sorted)
			break
		}
	}
}
