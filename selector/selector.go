// Package selector resolves the set of entries a bulk command operates
// on. Commands accept several selection modes (explicit ids, a CSV file,
// a category, a tag, an owner) and exactly one may be used per run.
package selector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kadmin/kaltura"
	"kadmin/report"
)

// Selection names the target entries of one command run.
type Selection struct {
	// IDs is an explicit comma-separated entry id list.
	IDs string
	// CSVPath points at a CSV file with an entry_id column.
	CSVPath string
	// CategoryID selects every entry published in the category.
	CategoryID int
	// Tag selects entries carrying the tag.
	Tag string
	// Owner selects entries owned by the user.
	Owner string
}

// modes returns the selection modes that are set.
func (s Selection) modes() []string {
	var set []string
	if s.CSVPath != "" {
		set = append(set, "csv")
	}
	if s.IDs != "" {
		set = append(set, "ids")
	}
	if s.CategoryID != 0 {
		set = append(set, "category")
	}
	if s.Tag != "" {
		set = append(set, "tag")
	}
	if s.Owner != "" {
		set = append(set, "owner")
	}
	return set
}

// Validate checks that exactly one selection mode is in use.
func (s Selection) Validate() error {
	modes := s.modes()
	switch len(modes) {
	case 0:
		return fmt.Errorf("no selection given: use --ids, --csv, --category, --tag or --owner")
	case 1:
		return nil
	default:
		return fmt.Errorf("conflicting selections (%s): use exactly one", strings.Join(modes, ", "))
	}
}

// EntryIDs resolves the selection to a deduplicated entry id list. CSV
// files must carry an entry_id column.
func EntryIDs(ctx context.Context, client *kaltura.Client, sel Selection) ([]string, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	switch {
	case sel.CSVPath != "":
		rows, err := report.Read(sel.CSVPath, "entry_id")
		if err != nil {
			return nil, err
		}
		return dedupe(report.Column(rows, "entry_id")), nil

	case sel.IDs != "":
		var ids []string
		for _, id := range strings.Split(sel.IDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("--ids contained no entry ids")
		}
		return dedupe(ids), nil
	}

	entries, err := Entries(ctx, client, sel)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}

// Entries resolves the selection to full entry objects. For id and CSV
// selections each entry is fetched individually so missing ids surface
// as errors rather than silent gaps.
func Entries(ctx context.Context, client *kaltura.Client, sel Selection) ([]kaltura.MediaEntry, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	var filter kaltura.EntryFilter
	switch {
	case sel.CSVPath != "" || sel.IDs != "":
		ids, err := EntryIDs(ctx, client, sel)
		if err != nil {
			return nil, err
		}
		entries := make([]kaltura.MediaEntry, 0, len(ids))
		for _, id := range ids {
			entry, err := client.GetEntry(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", id, err)
			}
			entries = append(entries, *entry)
		}
		return entries, nil

	case sel.CategoryID != 0:
		filter = kaltura.EntryFilter{
			ObjectType:           "KalturaBaseEntryFilter",
			CategoriesIDsMatchOr: fmt.Sprintf("%d", sel.CategoryID),
		}
	case sel.Tag != "":
		filter = kaltura.EntryFilter{
			ObjectType: "KalturaBaseEntryFilter",
			TagsLike:   sel.Tag,
		}
	case sel.Owner != "":
		filter = kaltura.EntryFilter{
			ObjectType:  "KalturaBaseEntryFilter",
			UserIDEqual: sel.Owner,
		}
	}
	return client.ListAllBaseEntries(ctx, filter)
}

// WithChildren expands entries with their multi-stream children, which
// share the parent's fate in bulk operations. Children already present
// are not added twice.
func WithChildren(ctx context.Context, client *kaltura.Client, entries []kaltura.MediaEntry) ([]kaltura.MediaEntry, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.ID] = true
	}

	out := entries
	for _, e := range entries {
		if e.IsChild() {
			continue
		}
		children, err := client.ListAllBaseEntries(ctx, kaltura.EntryFilter{
			ObjectType:         "KalturaBaseEntryFilter",
			ParentEntryIDEqual: e.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", e.ID, err)
		}
		for _, child := range children {
			if !seen[child.ID] {
				seen[child.ID] = true
				out = append(out, child)
			}
		}
	}
	return out, nil
}

// ParentsFirst orders entries so parents precede their children. Cross
// account duplication needs this: a child can only be created once its
// parent's copy exists and the id mapping is known.
func ParentsFirst(entries []kaltura.MediaEntry) []kaltura.MediaEntry {
	depth := make(map[string]int, len(entries))
	byID := make(map[string]kaltura.MediaEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	var depthOf func(id string, hops int) int
	depthOf = func(id string, hops int) int {
		if d, ok := depth[id]; ok {
			return d
		}
		// hops bounds traversal against cyclic parent data.
		if hops > len(entries) {
			return 0
		}
		e, ok := byID[id]
		if !ok || !e.IsChild() {
			depth[id] = 0
			return 0
		}
		parent := e.ParentEntryID
		if parent == "" {
			parent = e.RootEntryID
		}
		d := depthOf(parent, hops+1) + 1
		depth[id] = d
		return d
	}

	sorted := make([]kaltura.MediaEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return depthOf(sorted[i].ID, 0) < depthOf(sorted[j].ID, 0)
	})
	return sorted
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
