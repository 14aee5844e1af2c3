package kaltura

import "strings"

// Media types.
const (
	MediaTypeVideo = 1
	MediaTypeImage = 2
	MediaTypeAudio = 5
)

// Source types for new entries.
const (
	SourceTypeFile = "1"
	SourceTypeURL  = "2"
)

// Cue point types as the API names them.
const (
	CueTypeAnnotation   = "annotation.Annotation"
	CueTypeAd           = "adCuePoint.Ad"
	CueTypeCode         = "codeCuePoint.Code"
	CueTypeEvent        = "eventCuePoint.Event"
	CueTypeQuizQuestion = "quiz.QUIZ_QUESTION"
	CueTypeQuizAnswer   = "quiz.QUIZ_ANSWER"
	CueTypeThumb        = "thumbCuePoint.Thumb"
)

// ThumbCueSubTypeChapter marks a thumb cue point as a chapter marker.
const ThumbCueSubTypeChapter = 2

// Category entry status values.
const CategoryEntryStatusActive = 2

// Category user permission levels.
const (
	PermissionManager     = 0
	PermissionModerator   = 1
	PermissionContributor = 2
	PermissionMember      = 3
	PermissionNone        = 4
)

// MediaEntry is a media object. The same shape serves baseEntry results;
// fields the API omits for a given entry kind stay at their zero values.
type MediaEntry struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Tags                 string `json:"tags"`
	UserID               string `json:"userId"`
	CreatorID            string `json:"creatorId"`
	ParentEntryID        string `json:"parentEntryId"`
	RootEntryID          string `json:"rootEntryId"`
	Duration             int    `json:"duration"`
	Plays                int    `json:"plays"`
	Views                int    `json:"views"`
	CreatedAt            int64  `json:"createdAt"`
	UpdatedAt            int64  `json:"updatedAt"`
	LastPlayedAt         int64  `json:"lastPlayedAt"`
	MediaType            int    `json:"mediaType"`
	Status               int    `json:"status"`
	DisplayInSearch      int    `json:"displayInSearch"`
	DownloadURL          string `json:"downloadUrl"`
	ConversionProfileID  int    `json:"conversionProfileId"`
	Capabilities         string `json:"capabilities"`
	EntitledUsersEdit    string `json:"entitledUsersEdit"`
	EntitledUsersPublish string `json:"entitledUsersPublish"`
}

// IsQuiz reports whether the entry carries the quiz capability.
func (e *MediaEntry) IsQuiz() bool {
	return containsToken(e.Capabilities, "quiz.quiz")
}

// IsChild reports whether the entry is a child in a multi-stream hierarchy.
func (e *MediaEntry) IsChild() bool {
	if e.ParentEntryID != "" && e.ParentEntryID != e.ID {
		return true
	}
	if e.RootEntryID != "" && e.RootEntryID != e.ID {
		return true
	}
	return false
}

// OptionalAnswer is one answer option of a quiz question cue point.
type OptionalAnswer struct {
	Key       string  `json:"key"`
	Text      string  `json:"text"`
	Weight    float64 `json:"weight"`
	IsCorrect int     `json:"isCorrect"`
}

// CuePoint is a timestamped annotation attached to an entry. One struct
// covers every cue kind; CuePointType tells them apart.
type CuePoint struct {
	ID               string `json:"id"`
	EntryID          string `json:"entryId"`
	CuePointType     string `json:"cuePointType"`
	StartTime        int    `json:"startTime"`
	EndTime          int    `json:"endTime"`
	Duration         int    `json:"duration"`
	UserID           string `json:"userId"`
	Tags             string `json:"tags"`
	SystemName       string `json:"systemName"`
	PartnerData      string `json:"partnerData"`
	PartnerSortValue int    `json:"partnerSortValue"`
	ThumbOffset      int    `json:"thumbOffset"`
	ForceStop        int    `json:"forceStop"`
	IsPublic         int    `json:"isPublic"`
	CreatedAt        int64  `json:"createdAt"`
	ParentID         string `json:"parentId"`

	// Thumb cue (chapter) fields
	Title       string `json:"title"`
	Description string `json:"description"`
	SubType     int    `json:"subType"`

	// Annotation / code cue fields
	Text string `json:"text"`

	// Quiz question fields
	Question        string           `json:"question"`
	QuestionType    int              `json:"questionType"`
	OptionalAnswers []OptionalAnswer `json:"optionalAnswers"`

	// Quiz answer fields
	AnswerKey string `json:"answerKey"`
	IsCorrect int    `json:"isCorrect"`
}

// CaptionAsset is a caption file attached to an entry.
type CaptionAsset struct {
	ID              string  `json:"id"`
	EntryID         string  `json:"entryId"`
	Language        string  `json:"language"`
	Label           string  `json:"label"`
	Format          string  `json:"format"`
	FileExt         string  `json:"fileExt"`
	IsDefault       int     `json:"isDefault"`
	DisplayOnPlayer bool    `json:"displayOnPlayer"`
	Accuracy        float64 `json:"accuracy"`
	Status          int     `json:"status"`
}

// FlavorAsset is one transcoded rendition of an entry's source file.
type FlavorAsset struct {
	ID             string `json:"id"`
	EntryID        string `json:"entryId"`
	FlavorParamsID int    `json:"flavorParamsId"`
	IsOriginal     bool   `json:"isOriginal"`
	Tags           string `json:"tags"`
	FileExt        string `json:"fileExt"`
	Size           int64  `json:"size"` // kilobytes
	SizeInBytes    int64  `json:"sizeInBytes"`
}

// Bytes returns the asset size in bytes, falling back to the kilobyte
// field older deployments report.
func (f *FlavorAsset) Bytes() int64 {
	if f.SizeInBytes > 0 {
		return f.SizeInBytes
	}
	return f.Size * 1024
}

// ThumbAsset is a thumbnail attached to an entry.
type ThumbAsset struct {
	ID      string `json:"id"`
	EntryID string `json:"entryId"`
	Tags    string `json:"tags"`
}

// AttachmentAsset is an arbitrary file attached to an entry. ObjectType
// distinguishes plain attachments from transcript assets.
type AttachmentAsset struct {
	ID          string `json:"id"`
	ObjectType  string `json:"objectType"`
	EntryID     string `json:"entryId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Tags        string `json:"tags"`
	FileExt     string `json:"fileExt"`
	Format      string `json:"format"`
	PartnerData string `json:"partnerData"`
}

// IsTranscript reports whether the attachment is an ASR transcript.
func (a *AttachmentAsset) IsTranscript() bool {
	return a.ObjectType == "KalturaTranscriptAsset"
}

// Category is a category/channel node.
type Category struct {
	ID                     int    `json:"id"`
	ParentID               int    `json:"parentId"`
	Name                   string `json:"name"`
	FullName               string `json:"fullName"`
	Owner                  string `json:"owner"`
	Privacy                int    `json:"privacy"`
	PrivacyContext         string `json:"privacyContext"`
	UserJoinPolicy         int    `json:"userJoinPolicy"`
	AppearInList           int    `json:"appearInList"`
	InheritanceType        int    `json:"inheritanceType"`
	DefaultPermissionLevel int    `json:"defaultPermissionLevel"`
	ContributionPolicy     int    `json:"contributionPolicy"`
	Moderation             int    `json:"moderation"`
	EntriesCount           int    `json:"entriesCount"`
}

// CategoryUser is a user's membership in a category.
type CategoryUser struct {
	CategoryID      int    `json:"categoryId"`
	UserID          string `json:"userId"`
	PermissionLevel int    `json:"permissionLevel"`
}

// CategoryEntry is an entry's placement in a category.
type CategoryEntry struct {
	CategoryID int    `json:"categoryId"`
	EntryID    string `json:"entryId"`
	Status     int    `json:"status"`
}

// UserEntry is a per-user record on an entry; quiz submissions are user
// entries of the quiz type.
type UserEntry struct {
	ID        int    `json:"id"`
	EntryID   string `json:"entryId"`
	UserID    string `json:"userId"`
	Status    int    `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

// Playlist is a manual or rule-based playlist entry.
type Playlist struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"playlistContent"`
}

// Metadata is a custom metadata record bound to some object.
type Metadata struct {
	ID                int    `json:"id"`
	MetadataProfileID int    `json:"metadataProfileId"`
	ObjectID          string `json:"objectId"`
	XML               string `json:"xml"`
}

// Quiz carries the quiz settings of a quiz entry.
type Quiz struct {
	AllowAnswerUpdate          int    `json:"allowAnswerUpdate"`
	AllowDownload              int    `json:"allowDownload"`
	AttemptsAllowed            int    `json:"attemptsAllowed"`
	ScoreType                  int    `json:"scoreType"`
	ShowCorrectAfterSubmission int    `json:"showCorrectAfterSubmission"`
	ShowGradeAfterSubmission   int    `json:"showGradeAfterSubmission"`
	UIAttributes               string `json:"uiAttributes"`
}

// AuditTrail is one audit log record for an object.
type AuditTrail struct {
	ID         int    `json:"id"`
	EntryID    string `json:"entryId"`
	UserID     string `json:"userId"`
	Action     string `json:"action"`
	EntryPoint string `json:"entryPoint"`
	CreatedAt  int64  `json:"createdAt"`
}

// containsToken checks for token inside a comma-separated list.
func containsToken(list, token string) bool {
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == token {
			return true
		}
	}
	return false
}
