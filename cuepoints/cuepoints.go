// Package cuepoints bulk-deletes cue points of one kind from entries.
package cuepoints

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"

	"kadmin/kaltura"
	"kadmin/prompt"
	"kadmin/report"
)

// Kind selects which cue points a run touches.
type Kind string

const (
	KindChapters      Kind = "chapters"
	KindQuizQuestions Kind = "quiz-questions"
	KindQuizAnswers   Kind = "quiz-answers"
)

// ParseKind validates a kind flag value.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindChapters, KindQuizQuestions, KindQuizAnswers:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown cue point kind %q: use chapters, quiz-questions or quiz-answers", s)
}

// cueType returns the API cue point type for the kind.
func (k Kind) cueType() string {
	switch k {
	case KindQuizQuestions:
		return kaltura.CueTypeQuizQuestion
	case KindQuizAnswers:
		return kaltura.CueTypeQuizAnswer
	default:
		return kaltura.CueTypeThumb
	}
}

// matches filters listed cue points down to the kind; chapters share the
// thumb cue type with slides, so the sub type decides there.
func (k Kind) matches(cue kaltura.CuePoint) bool {
	if k == KindChapters {
		return cue.SubType == kaltura.ThumbCueSubTypeChapter
	}
	return true
}

// Result summarizes one run.
type Result struct {
	Deleted         int
	AttemptsDeleted int
	Skipped         int
	ReportPath      string
}

// Delete lists the kind's cue points on every entry, asks per entry, and
// deletes. For quiz answers the submitting users' quiz attempts go too,
// otherwise the grade book keeps referencing deleted answers.
func Delete(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, entryIDs []string, kind Kind, reportsDir string) (res *Result, err error) {
	out := reportWriter(kind)
	res = &Result{}

	// The report must survive a mid-run failure: rows record cue points
	// already destroyed on the server.
	defer func() {
		if out.Len() == 0 {
			return
		}
		path, saveErr := out.Save(reportsDir, "cuepoints_deleted_"+string(kind))
		if saveErr != nil {
			if err == nil {
				err = saveErr
			} else {
				log.Printf("save report: %v", saveErr)
			}
			return
		}
		res.ReportPath = path
	}()

	for _, entryID := range entryIDs {
		cues, err := client.ListCuePoints(ctx, kaltura.CuePointFilter{
			EntryIDEqual:      entryID,
			CuePointTypeEqual: kind.cueType(),
		})
		if err != nil {
			return res, fmt.Errorf("list cue points of %s: %w", entryID, err)
		}
		var matched []kaltura.CuePoint
		for _, cue := range cues {
			if kind.matches(cue) {
				matched = append(matched, cue)
			}
		}
		if len(matched) == 0 {
			log.Printf("%s: no %s found", entryID, kind)
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].StartTime < matched[j].StartTime
		})

		ok, err := p.Confirm(fmt.Sprintf("Delete %d %s from %s?", len(matched), kind, entryID))
		if err != nil {
			return res, err
		}
		if !ok {
			res.Skipped += len(matched)
			continue
		}

		users := map[string]bool{}
		for _, cue := range matched {
			if err := client.DeleteCuePoint(ctx, cue.ID); err != nil {
				return res, fmt.Errorf("delete cue point %s: %w", cue.ID, err)
			}
			appendRow(out, kind, cue)
			res.Deleted++
			if kind == KindQuizAnswers && cue.UserID != "" {
				users[cue.UserID] = true
			}
		}

		if kind == KindQuizAnswers {
			deleted, err := deleteAttempts(ctx, client, entryID, users)
			if err != nil {
				return res, err
			}
			res.AttemptsDeleted += deleted
		}
	}

	return res, nil
}

// deleteAttempts removes the quiz attempts of users whose answers were
// deleted on the entry.
func deleteAttempts(ctx context.Context, client *kaltura.Client, entryID string, users map[string]bool) (int, error) {
	deleted := 0
	for userID := range users {
		attempts, err := client.ListUserEntries(ctx, kaltura.UserEntryFilter{
			Quiz:         true,
			EntryIDEqual: entryID,
			UserIDEqual:  userID,
		})
		if err != nil {
			return deleted, fmt.Errorf("list attempts of %s on %s: %w", userID, entryID, err)
		}
		for _, attempt := range attempts {
			if err := client.DeleteUserEntry(ctx, attempt.ID); err != nil {
				return deleted, fmt.Errorf("delete attempt %d: %w", attempt.ID, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

func reportWriter(kind Kind) *report.Writer {
	switch kind {
	case KindQuizQuestions:
		return report.NewWriter("entry_id", "cue_point_id", "question",
			"option_1", "option_2", "option_3", "option_4", "correct_answer")
	case KindQuizAnswers:
		return report.NewWriter("entry_id", "cue_point_id", "user_id", "answer_key", "is_correct")
	default:
		return report.NewWriter("entry_id", "cue_point_id", "start_time_ms", "title", "description")
	}
}

func appendRow(out *report.Writer, kind Kind, cue kaltura.CuePoint) {
	switch kind {
	case KindQuizQuestions:
		row := []string{cue.EntryID, cue.ID, cue.Question, "", "", "", "", ""}
		for i, answer := range cue.OptionalAnswers {
			if i < 4 {
				row[3+i] = answer.Text
			}
			if answer.IsCorrect == 1 && row[7] == "" {
				row[7] = answer.Text
			}
		}
		out.Append(row...)
	case KindQuizAnswers:
		out.Append(cue.EntryID, cue.ID, cue.UserID, cue.AnswerKey, strconv.Itoa(cue.IsCorrect))
	default:
		out.Append(cue.EntryID, cue.ID, strconv.Itoa(cue.StartTime), cue.Title, cue.Description)
	}
}
