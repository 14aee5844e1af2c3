package kaltura

import (
	"context"
	"fmt"
	"strconv"
)

// ListCuePoints walks every cue point matching filter.
func (c *Client) ListCuePoints(ctx context.Context, filter CuePointFilter) ([]CuePoint, error) {
	return listAll[CuePoint](ctx, c, "cuepoint_cuepoint", filter)
}

// DeleteCuePoint removes one cue point by id.
func (c *Client) DeleteCuePoint(ctx context.Context, cuePointID string) error {
	params := Params{}
	params.Set("id", cuePointID)
	return c.request(ctx, "cuepoint_cuepoint", "delete", params, nil)
}

// NewChapter describes one chapter marker to attach to an entry.
type NewChapter struct {
	EntryID     string
	StartTime   int // milliseconds
	Title       string
	Description string
	Tags        string
	PartnerData string
}

// AddChapter creates a thumb cue point of the chapter sub type.
func (c *Client) AddChapter(ctx context.Context, chapter NewChapter) (*CuePoint, error) {
	params := Params{}
	params.Set("cuePoint:objectType", "KalturaThumbCuePoint")
	params.Set("cuePoint:entryId", chapter.EntryID)
	params.SetIntAlways("cuePoint:startTime", chapter.StartTime)
	params.SetIntAlways("cuePoint:subType", ThumbCueSubTypeChapter)
	params.Set("cuePoint:title", chapter.Title)
	params.Set("cuePoint:description", chapter.Description)
	params.Set("cuePoint:tags", chapter.Tags)
	params.Set("cuePoint:partnerData", chapter.PartnerData)
	var created CuePoint
	if err := c.request(ctx, "cuepoint_cuepoint", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AddCuePoint recreates a cue point on an entry from its fields. Cross
// account copies go through it because cuePoint.clone only works within
// one account. Unsupported cue types are an error.
func (c *Client) AddCuePoint(ctx context.Context, entryID string, cue CuePoint) (*CuePoint, error) {
	params := Params{}
	params.Set("cuePoint:entryId", entryID)
	params.SetIntAlways("cuePoint:startTime", cue.StartTime)
	params.Set("cuePoint:tags", cue.Tags)
	params.Set("cuePoint:systemName", cue.SystemName)
	params.Set("cuePoint:partnerData", cue.PartnerData)
	params.SetInt("cuePoint:partnerSortValue", cue.PartnerSortValue)

	switch cue.CuePointType {
	case CueTypeThumb:
		params.Set("cuePoint:objectType", "KalturaThumbCuePoint")
		params.SetInt("cuePoint:subType", cue.SubType)
		params.Set("cuePoint:title", cue.Title)
		params.Set("cuePoint:description", cue.Description)
	case CueTypeAnnotation:
		params.Set("cuePoint:objectType", "KalturaAnnotation")
		params.Set("cuePoint:text", cue.Text)
		params.SetInt("cuePoint:endTime", cue.EndTime)
		params.SetInt("cuePoint:isPublic", cue.IsPublic)
	case CueTypeCode:
		params.Set("cuePoint:objectType", "KalturaCodeCuePoint")
		params.Set("cuePoint:code", cue.Text)
		params.Set("cuePoint:description", cue.Description)
		params.SetInt("cuePoint:endTime", cue.EndTime)
	case CueTypeQuizQuestion:
		params.Set("cuePoint:objectType", "KalturaQuestionCuePoint")
		params.Set("cuePoint:question", cue.Question)
		params.SetInt("cuePoint:questionType", cue.QuestionType)
		params.SetInt("cuePoint:endTime", cue.EndTime)
		for i, answer := range cue.OptionalAnswers {
			prefix := fmt.Sprintf("cuePoint:optionalAnswers:%d:", i)
			params.Set(prefix+"objectType", "KalturaOptionalAnswer")
			params.Set(prefix+"key", answer.Key)
			params.Set(prefix+"text", answer.Text)
			params.SetIntAlways(prefix+"isCorrect", answer.IsCorrect)
			if answer.Weight != 0 {
				params[prefix+"weight"] = strconv.FormatFloat(answer.Weight, 'f', -1, 64)
			}
		}
	case CueTypeQuizAnswer:
		params.Set("cuePoint:objectType", "KalturaAnswerCuePoint")
		params.Set("cuePoint:answerKey", cue.AnswerKey)
		params.SetIntAlways("cuePoint:isCorrect", cue.IsCorrect)
		params.Set("cuePoint:parentId", cue.ParentID)
		params.Set("cuePoint:userId", cue.UserID)
	default:
		return nil, fmt.Errorf("cue point type %q is not supported", cue.CuePointType)
	}

	var created CuePoint
	if err := c.request(ctx, "cuepoint_cuepoint", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CloneCuePoint copies a cue point onto another entry. Quiz questions
// and answers clone this way during quiz duplication.
func (c *Client) CloneCuePoint(ctx context.Context, cuePointID, destEntryID string) (*CuePoint, error) {
	params := Params{}
	params.Set("id", cuePointID)
	params.Set("entryId", destEntryID)
	var cloned CuePoint
	if err := c.request(ctx, "cuepoint_cuepoint", "clone", params, &cloned); err != nil {
		return nil, err
	}
	return &cloned, nil
}
