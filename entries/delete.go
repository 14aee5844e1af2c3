package entries

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"kadmin/kaltura"
	"kadmin/prompt"
	"kadmin/report"
)

// DeleteMode distinguishes permanent deletion from the recycle bin.
type DeleteMode string

const (
	ModeDelete  DeleteMode = "DELETE"
	ModeRecycle DeleteMode = "RECYCLE"
)

// ParseDeleteMode validates a mode flag value.
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(s) {
	case ModeDelete, ModeRecycle:
		return DeleteMode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q: use DELETE or RECYCLE", s)
}

// DeleteResult summarizes one run.
type DeleteResult struct {
	Deleted     int
	NotFound    int
	Failed      int
	PreviewPath string
	ResultPath  string
}

// preview holds what we learned about one candidate before deletion.
type preview struct {
	id    string
	entry *kaltura.MediaEntry
}

// Delete fetches metadata for every candidate, writes a preview report,
// gates on a typed confirmation matching the mode, then deletes or
// recycles. Ids the account does not know are carried into the result as
// NOT FOUND rather than failing the run.
func Delete(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, ids []string, mode DeleteMode, reportsDir string) (*DeleteResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no entry ids given")
	}

	res := &DeleteResult{}
	previewOut := report.NewWriter("entry_id", "name", "owner", "duration_sec", "plays", "status", "created")
	candidates := make([]preview, 0, len(ids))

	for _, id := range ids {
		entry, err := client.GetEntry(ctx, id)
		if err != nil {
			if kaltura.IsNotFound(err) {
				previewOut.Append(id, "NOT FOUND")
				candidates = append(candidates, preview{id: id})
				continue
			}
			return nil, fmt.Errorf("look up %s: %w", id, err)
		}
		previewOut.Append(id, entry.Name, entry.UserID,
			strconv.Itoa(entry.Duration), strconv.Itoa(entry.Plays),
			strconv.Itoa(entry.Status),
			time.Unix(entry.CreatedAt, 0).Format("2006-01-02"))
		candidates = append(candidates, preview{id: id, entry: entry})
	}

	previewPath, err := previewOut.Save(reportsDir, "delete_preview")
	if err != nil {
		return nil, err
	}
	res.PreviewPath = previewPath
	log.Printf("preview written to %s", previewPath)

	found := 0
	for _, c := range candidates {
		if c.entry != nil {
			found++
		}
	}
	verb := "permanently deletes"
	if mode == ModeRecycle {
		verb = "recycles"
	}
	ok, err := p.ConfirmTyped(fmt.Sprintf("This %s %d entries (%d ids were not found).", verb, found, len(candidates)-found), string(mode))
	if err != nil {
		return res, err
	}
	if !ok {
		return res, fmt.Errorf("aborted")
	}

	resultOut := report.NewWriter("entry_id", "name", "outcome")
	for _, c := range candidates {
		if c.entry == nil {
			resultOut.Append(c.id, "", "NOT FOUND")
			res.NotFound++
			continue
		}
		var opErr error
		if mode == ModeRecycle {
			opErr = client.RecycleEntry(ctx, c.id)
		} else {
			opErr = client.DeleteEntry(ctx, c.id)
		}
		if opErr != nil {
			log.Printf("%s %s: %v", mode, c.id, opErr)
			resultOut.Append(c.id, c.entry.Name, "FAILED: "+opErr.Error())
			res.Failed++
			continue
		}
		resultOut.Append(c.id, c.entry.Name, string(mode)+"D")
		res.Deleted++
	}

	resultPath, err := resultOut.Save(reportsDir, "delete_result")
	if err != nil {
		return res, err
	}
	res.ResultPath = resultPath
	return res, nil
}
