package kaltura

import "context"

// GetQuiz fetches the quiz settings of a quiz entry.
func (c *Client) GetQuiz(ctx context.Context, entryID string) (*Quiz, error) {
	params := Params{}
	params.Set("entryId", entryID)
	var quiz Quiz
	if err := c.request(ctx, "quiz_quiz", "get", params, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// AddQuiz attaches quiz settings to an entry, turning it into a quiz.
func (c *Client) AddQuiz(ctx context.Context, entryID string, quiz Quiz) (*Quiz, error) {
	params := Params{}
	params.Set("entryId", entryID)
	params.Set("quiz:objectType", "KalturaQuiz")
	params.SetIntAlways("quiz:allowAnswerUpdate", quiz.AllowAnswerUpdate)
	params.SetIntAlways("quiz:allowDownload", quiz.AllowDownload)
	params.SetInt("quiz:attemptsAllowed", quiz.AttemptsAllowed)
	params.SetIntAlways("quiz:scoreType", quiz.ScoreType)
	params.SetIntAlways("quiz:showCorrectAfterSubmission", quiz.ShowCorrectAfterSubmission)
	params.SetIntAlways("quiz:showGradeAfterSubmission", quiz.ShowGradeAfterSubmission)
	params.Set("quiz:uiAttributes", quiz.UIAttributes)
	var created Quiz
	if err := c.request(ctx, "quiz_quiz", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListUserEntries walks user entries matching filter. With Quiz set on
// the filter these are quiz submission attempts.
func (c *Client) ListUserEntries(ctx context.Context, filter UserEntryFilter) ([]UserEntry, error) {
	return listAll[UserEntry](ctx, c, "userentry", filter)
}

// DeleteUserEntry removes one user entry, which for quizzes discards the
// attempt and its score.
func (c *Client) DeleteUserEntry(ctx context.Context, userEntryID int) error {
	params := Params{}
	params.SetIntAlways("id", userEntryID)
	return c.request(ctx, "userentry", "delete", params, nil)
}
