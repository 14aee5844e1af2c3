package reports

import (
	"context"
	"fmt"
	"time"

	"kadmin/kaltura"
	"kadmin/report"
)

// replacementEntryPoint marks audit records written when an entry's
// media was replaced.
const replacementEntryPoint = "media::updatecontent"

// ReplacementsResult summarizes one run.
type ReplacementsResult struct {
	EntriesWithReplacements int
	Replacements            int
	ReportPath              string
}

// Replacements audits which entries had their media replaced after
// upload. For every entry whose audit trail holds updatecontent events
// newer than the entry itself, one creation row plus one row per
// replacement land in the CSV. Audit logging must be enabled on the
// account.
func Replacements(ctx context.Context, client *kaltura.Client, targets []kaltura.MediaEntry, reportsDir string) (*ReplacementsResult, error) {
	out := report.NewWriter("entry_id", "title", "action", "user_id", "timestamp")
	res := &ReplacementsResult{}

	for _, entry := range targets {
		records, err := client.ListAuditTrail(ctx, kaltura.AuditTrailFilter{ObjectIDEqual: entry.ID})
		if err != nil {
			return res, fmt.Errorf("audit trail of %s: %w", entry.ID, err)
		}

		var replacements []kaltura.AuditTrail
		for _, record := range records {
			if record.EntryPoint == replacementEntryPoint && record.CreatedAt > entry.CreatedAt {
				replacements = append(replacements, record)
			}
		}
		if len(replacements) == 0 {
			continue
		}

		creator := entry.CreatorID
		if creator == "" {
			creator = entry.UserID
		}
		out.Append(entry.ID, entry.Name, "creation", creator, localTime(entry.CreatedAt))
		for _, record := range replacements {
			out.Append(entry.ID, entry.Name, "replacement", record.UserID, localTime(record.CreatedAt))
		}
		res.EntriesWithReplacements++
		res.Replacements += len(replacements)
	}

	path, err := out.Save(reportsDir, "replacements_audit")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

func localTime(epoch int64) string {
	return time.Unix(epoch, 0).Local().Format("2006-01-02 15:04:05")
}
