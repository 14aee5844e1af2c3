// Package entries implements bulk operations on entries themselves:
// renaming, deletion, republishing and source downloads.
package entries

import (
	"context"
	"fmt"
	"log"

	"kadmin/kaltura"
	"kadmin/prompt"
	"kadmin/report"
)

// RenameOptions controls a bulk rename.
type RenameOptions struct {
	// Prefix is prepended to every title.
	Prefix string
	// Suffix is appended to every title.
	Suffix string
	// ReportsDir receives the rename report.
	ReportsDir string
}

// RenameResult summarizes one run.
type RenameResult struct {
	Renamed    int
	Failed     int
	ReportPath string
}

// Rename applies the prefix/suffix to every entry's title after a single
// confirmation showing the count. Failing entries are reported and the
// run continues.
func Rename(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, targets []kaltura.MediaEntry, opts RenameOptions) (*RenameResult, error) {
	if opts.Prefix == "" && opts.Suffix == "" {
		return nil, fmt.Errorf("nothing to do: give --prefix or --suffix")
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no entries matched the selection")
	}

	ok, err := p.Confirm(fmt.Sprintf("Rename %d entries?", len(targets)))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("aborted")
	}

	out := report.NewWriter("entry_id", "original_title", "new_title")
	res := &RenameResult{}

	for _, entry := range targets {
		newName := opts.Prefix + entry.Name + opts.Suffix
		if _, err := client.UpdateEntry(ctx, entry.ID, kaltura.EntryUpdate{Name: &newName}); err != nil {
			log.Printf("rename %s: %v", entry.ID, err)
			out.Append(entry.ID, entry.Name, "FAILED: "+err.Error())
			res.Failed++
			continue
		}
		out.Append(entry.ID, entry.Name, newName)
		res.Renamed++
	}

	path, err := out.Save(opts.ReportsDir, "entries_renamed")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}
