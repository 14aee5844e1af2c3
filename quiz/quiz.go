// Package quiz clones quiz entries and clears quiz attempts.
package quiz

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

// CloneResult summarizes one clone run.
type CloneResult struct {
	Cloned     int
	Failed     int
	ReportPath string
}

// Clone copies each quiz entry and its question cue points. The platform
// clone does not carry cue points across, so questions are cloned one by
// one afterwards. Tag, when set, is appended to each clone's tags.
func Clone(ctx context.Context, client *kaltura.Client, entryIDs []string, tag, reportsDir string) (*CloneResult, error) {
	out := report.NewWriter("source_entry_id", "clone_entry_id", "questions_cloned", "outcome")
	res := &CloneResult{}

	for _, entryID := range entryIDs {
		source, err := client.GetEntry(ctx, entryID)
		if err != nil {
			out.Append(entryID, "", "", "FAILED: "+err.Error())
			res.Failed++
			continue
		}
		if !source.IsQuiz() {
			out.Append(entryID, "", "", "SKIPPED: not a quiz")
			res.Failed++
			continue
		}

		clone, err := client.CloneEntry(ctx, entryID)
		if err != nil {
			log.Printf("clone %s: %v", entryID, err)
			out.Append(entryID, "", "", "FAILED: "+err.Error())
			res.Failed++
			continue
		}

		if tag != "" {
			tags := clone.Tags
			if tags != "" {
				tags += ","
			}
			tags += tag
			if _, err := client.UpdateEntry(ctx, clone.ID, kaltura.EntryUpdate{Tags: &tags}); err != nil {
				log.Printf("tag clone %s: %v", clone.ID, err)
			}
		}

		questions, err := client.ListCuePoints(ctx, kaltura.CuePointFilter{
			EntryIDEqual:      entryID,
			CuePointTypeEqual: kaltura.CueTypeQuizQuestion,
		})
		if err != nil {
			out.Append(entryID, clone.ID, "0", "FAILED: list questions: "+err.Error())
			res.Failed++
			continue
		}
		cloned := 0
		for _, question := range questions {
			if _, err := client.CloneCuePoint(ctx, question.ID, clone.ID); err != nil {
				log.Printf("clone question %s into %s: %v", question.ID, clone.ID, err)
				continue
			}
			cloned++
		}

		outcome := "CLONED"
		if cloned < len(questions) {
			outcome = fmt.Sprintf("PARTIAL: %d of %d questions", cloned, len(questions))
		}
		out.Append(entryID, clone.ID, strconv.Itoa(cloned), outcome)
		res.Cloned++
	}

	path, err := out.Save(reportsDir, "quiz_clones")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

// AttemptsResult summarizes one delete-attempts run.
type AttemptsResult struct {
	Deleted    int
	ReportPath string
}

// DeleteAttempts removes the quiz attempts of the given users on the
// given entries, pair by pair, after a confirmation showing what was
// found. The detail report is written before deletion so there is a
// record even on abort.
func DeleteAttempts(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, entryIDs, userIDs []string, reportsDir string) (*AttemptsResult, error) {
	if len(entryIDs) == 0 || len(userIDs) == 0 {
		return nil, fmt.Errorf("both entry ids and user ids are required")
	}

	out := report.NewWriter("entry_id", "user_id", "user_entry_id", "status", "created")
	var attempts []kaltura.UserEntry

	for _, entryID := range entryIDs {
		for _, userID := range userIDs {
			found, err := client.ListUserEntries(ctx, kaltura.UserEntryFilter{
				Quiz:         true,
				EntryIDEqual: entryID,
				UserIDEqual:  userID,
			})
			if err != nil {
				return nil, fmt.Errorf("list attempts of %s on %s: %w", userID, entryID, err)
			}
			for _, attempt := range found {
				out.Append(entryID, userID, strconv.Itoa(attempt.ID),
					strconv.Itoa(attempt.Status),
					time.Unix(attempt.CreatedAt, 0).Format("2006-01-02 15:04"))
				attempts = append(attempts, attempt)
			}
		}
	}

	path, err := out.Save(reportsDir, "quiz_attempts")
	if err != nil {
		return nil, err
	}
	res := &AttemptsResult{ReportPath: path}

	if len(attempts) == 0 {
		log.Printf("no attempts found, detail written to %s", path)
		return res, nil
	}

	ok, err := p.ConfirmTyped(fmt.Sprintf("This deletes %d quiz attempts (detail in %s).", len(attempts), path), "DELETE")
	if err != nil {
		return res, err
	}
	if !ok {
		return res, fmt.Errorf("aborted")
	}

	for _, attempt := range attempts {
		if err := client.DeleteUserEntry(ctx, attempt.ID); err != nil {
			return res, fmt.Errorf("delete attempt %d: %w", attempt.ID, err)
		}
		res.Deleted++
	}
	return res, nil
}
