// Package duplicate copies entries across accounts and duplicates
// channel playlists.
package duplicate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"kadmin/flavors"
	"kadmin/kaltura"
	"kadmin/report"
	"kadmin/selector"
)

// Options controls a cross-account duplication run.
type Options struct {
	// Owner overrides the owner on the copies; empty keeps the source owner.
	Owner string
	// CoEditors and CoPublishers replace the entitled user lists on the
	// copies when non-empty.
	CoEditors    string
	CoPublishers string
	// ExtraTag is appended to each copy's tags to mark the migration.
	ExtraTag string
	// SkipCaptionLabel leaves captions with this label behind, typically
	// the machine-generated one regenerated on the destination anyway.
	SkipCaptionLabel string
	// SkipTranscripts leaves transcript attachments behind.
	SkipTranscripts bool
	// CopyQuizAnswers also carries student answer cue points across.
	CopyQuizAnswers bool
	// ReportsDir receives the id mapping report.
	ReportsDir string
}

// Result summarizes one run.
type Result struct {
	Copied     int
	Failed     int
	IDMap      map[string]string
	ReportPath string
}

// Entries copies the targets from source to dest. Targets are sorted
// parents first so child copies can reference their parent's new id;
// an entry that fails leaves its children uncopied but the run goes on.
func Entries(ctx context.Context, source, dest *kaltura.Client, targets []kaltura.MediaEntry, opts Options) (*Result, error) {
	sorted := selector.ParentsFirst(targets)
	out := report.NewWriter("source_entry_id", "dest_entry_id", "name", "outcome")
	res := &Result{IDMap: make(map[string]string, len(sorted))}

	for _, entry := range sorted {
		destID, err := copyEntry(ctx, source, dest, entry, res.IDMap, opts)
		if err != nil {
			log.Printf("copy %s: %v", entry.ID, err)
			out.Append(entry.ID, "", entry.Name, "FAILED: "+err.Error())
			res.Failed++
			continue
		}
		res.IDMap[entry.ID] = destID
		out.Append(entry.ID, destID, entry.Name, "COPIED")
		res.Copied++
	}

	path, err := out.Save(opts.ReportsDir, "duplicated_entries")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

func copyEntry(ctx context.Context, source, dest *kaltura.Client, entry kaltura.MediaEntry, idMap map[string]string, opts Options) (string, error) {
	owner := entry.UserID
	if opts.Owner != "" {
		owner = opts.Owner
	}
	tags := entry.Tags
	if opts.ExtraTag != "" {
		if tags != "" {
			tags += ","
		}
		tags += opts.ExtraTag
	}

	newEntry := kaltura.NewEntry{
		Name:                 entry.Name,
		Description:          entry.Description,
		Tags:                 tags,
		UserID:               owner,
		CreatorID:            owner,
		MediaType:            entry.MediaType,
		EntitledUsersEdit:    opts.CoEditors,
		EntitledUsersPublish: opts.CoPublishers,
	}
	if entry.IsChild() {
		parent := entry.ParentEntryID
		if parent == "" {
			parent = entry.RootEntryID
		}
		mapped, ok := idMap[parent]
		if !ok {
			return "", fmt.Errorf("parent %s was not copied", parent)
		}
		newEntry.ParentEntryID = mapped
	}

	created, err := dest.AddEntry(ctx, newEntry)
	if err != nil {
		return "", fmt.Errorf("create destination entry: %w", err)
	}

	if err := copyContent(ctx, source, dest, entry, created.ID); err != nil {
		return created.ID, err
	}
	if entry.IsQuiz() {
		if err := copyQuiz(ctx, source, dest, entry.ID, created.ID); err != nil {
			return created.ID, err
		}
	}
	if err := copyThumbs(ctx, source, dest, entry.ID, created.ID); err != nil {
		return created.ID, err
	}
	if err := copyCaptions(ctx, source, dest, entry.ID, created.ID, opts.SkipCaptionLabel); err != nil {
		return created.ID, err
	}
	if err := copyAttachments(ctx, source, dest, entry.ID, created.ID, opts.SkipTranscripts); err != nil {
		return created.ID, err
	}
	if err := copyCuePoints(ctx, source, dest, entry.ID, created.ID, opts.CopyQuizAnswers); err != nil {
		return created.ID, err
	}
	return created.ID, nil
}

// copyContent ingests the copy's media. Images have no flavors, so their
// download URL serves as the source; everything else ships its largest
// flavor.
func copyContent(ctx context.Context, source, dest *kaltura.Client, entry kaltura.MediaEntry, destID string) error {
	if entry.MediaType == kaltura.MediaTypeImage {
		if entry.DownloadURL == "" {
			return fmt.Errorf("image entry has no download URL")
		}
		if _, err := dest.AttachURL(ctx, destID, entry.DownloadURL); err != nil {
			return fmt.Errorf("ingest image: %w", err)
		}
		return nil
	}

	assets, err := source.ListFlavors(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("list source flavors: %w", err)
	}
	best := flavors.PickSource(assets)
	if best == nil {
		log.Printf("%s has no flavors, copied without content", entry.ID)
		return nil
	}
	url, err := source.FlavorURL(ctx, best.ID)
	if err != nil {
		return fmt.Errorf("source flavor url: %w", err)
	}
	if _, err := dest.AttachURL(ctx, destID, url); err != nil {
		return fmt.Errorf("ingest content: %w", err)
	}
	return nil
}

func copyQuiz(ctx context.Context, source, dest *kaltura.Client, sourceID, destID string) error {
	settings, err := source.GetQuiz(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("read quiz settings: %w", err)
	}
	if _, err := dest.AddQuiz(ctx, destID, *settings); err != nil {
		return fmt.Errorf("apply quiz settings: %w", err)
	}
	return nil
}

func copyThumbs(ctx context.Context, source, dest *kaltura.Client, sourceID, destID string) error {
	thumbs, err := source.ListThumbs(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("list thumbnails: %w", err)
	}
	for _, thumb := range thumbs {
		url, err := source.ThumbURL(ctx, thumb.ID)
		if err != nil {
			return fmt.Errorf("thumbnail %s url: %w", thumb.ID, err)
		}
		created, err := dest.AddThumbFromURL(ctx, destID, url)
		if err != nil {
			return fmt.Errorf("copy thumbnail %s: %w", thumb.ID, err)
		}
		if strings.Contains(thumb.Tags, "default_thumb") {
			if err := dest.SetDefaultThumb(ctx, created.ID); err != nil {
				log.Printf("set default thumbnail on %s: %v", destID, err)
			}
		}
	}
	return nil
}

func copyCaptions(ctx context.Context, source, dest *kaltura.Client, sourceID, destID, skipLabel string) error {
	assets, err := source.ListCaptions(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("list captions: %w", err)
	}
	for _, asset := range assets {
		if skipLabel != "" && asset.Label == skipLabel {
			continue
		}
		url, err := source.CaptionURL(ctx, asset.ID)
		if err != nil {
			return fmt.Errorf("caption %s url: %w", asset.ID, err)
		}
		created, err := dest.AddCaption(ctx, kaltura.NewCaption{
			EntryID:   destID,
			Language:  asset.Language,
			Label:     asset.Label,
			Format:    asset.Format,
			IsDefault: asset.IsDefault,
		})
		if err != nil {
			return fmt.Errorf("create caption: %w", err)
		}
		if err := dest.SetCaptionContent(ctx, created.ID, url); err != nil {
			return fmt.Errorf("ingest caption %s: %w", asset.ID, err)
		}
	}
	return nil
}

func copyAttachments(ctx context.Context, source, dest *kaltura.Client, sourceID, destID string, skipTranscripts bool) error {
	assets, err := source.ListAttachments(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, asset := range assets {
		if skipTranscripts && asset.IsTranscript() {
			continue
		}
		url, err := source.AttachmentURL(ctx, asset.ID)
		if err != nil {
			return fmt.Errorf("attachment %s url: %w", asset.ID, err)
		}
		created, err := dest.AddAttachment(ctx, kaltura.NewAttachment{
			EntryID:     destID,
			Title:       asset.Title,
			Description: asset.Description,
			Filename:    asset.Filename,
			Tags:        asset.Tags,
			Format:      asset.Format,
			PartnerData: asset.PartnerData,
		})
		if err != nil {
			return fmt.Errorf("create attachment: %w", err)
		}
		if err := dest.SetAttachmentContent(ctx, created.ID, url); err != nil {
			return fmt.Errorf("ingest attachment %s: %w", asset.ID, err)
		}
	}
	return nil
}

// copyCuePoints recreates the source's cue points on the copy. A cue of
// an unsupported type fails only itself.
func copyCuePoints(ctx context.Context, source, dest *kaltura.Client, sourceID, destID string, copyQuizAnswers bool) error {
	cues, err := source.ListCuePoints(ctx, kaltura.CuePointFilter{EntryIDEqual: sourceID})
	if err != nil {
		return fmt.Errorf("list cue points: %w", err)
	}
	for _, cue := range cues {
		if cue.CuePointType == kaltura.CueTypeQuizAnswer && !copyQuizAnswers {
			continue
		}
		if _, err := dest.AddCuePoint(ctx, destID, cue); err != nil {
			log.Printf("copy cue point %s (%s) of %s: %v", cue.ID, cue.CuePointType, sourceID, err)
		}
	}
	return nil
}
