// Package captions bulk-edits caption assets: hiding them from the
// player and downloading them, optionally converted to plain text.
package captions

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"kadmin/kaltura"
	"kadmin/prompt"
	"kadmin/report"
	"kadmin/retry"
)

// HideResult summarizes one hide run.
type HideResult struct {
	Hidden     int
	Unchanged  int
	ReportPath string
}

// Hide turns displayOnPlayer off for captions whose label equals label,
// across all target entries, after confirming the affected entry count.
func Hide(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, targets []kaltura.MediaEntry, label, reportsDir string) (*HideResult, error) {
	if label == "" {
		return nil, fmt.Errorf("no caption label configured")
	}

	type hit struct {
		entry   kaltura.MediaEntry
		caption kaltura.CaptionAsset
	}
	var toHide []hit
	out := report.NewWriter("entry_id", "caption_id", "label", "language", "change")

	for _, entry := range targets {
		assets, err := client.ListCaptions(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("list captions of %s: %w", entry.ID, err)
		}
		for _, asset := range assets {
			if asset.Label == label && asset.DisplayOnPlayer {
				toHide = append(toHide, hit{entry: entry, caption: asset})
			} else {
				out.Append(entry.ID, asset.ID, asset.Label, asset.Language, "UNCHANGED")
			}
		}
	}

	affected := map[string]bool{}
	for _, h := range toHide {
		affected[h.entry.ID] = true
	}
	if len(toHide) == 0 {
		return nil, fmt.Errorf("no visible captions labeled %q on the selected entries", label)
	}
	ok, err := p.Confirm(fmt.Sprintf("Hide %d captions labeled %q across %d entries?", len(toHide), label, len(affected)))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("aborted")
	}

	res := &HideResult{Unchanged: out.Len()}
	for _, h := range toHide {
		if err := client.SetCaptionVisibility(ctx, h.caption.ID, false); err != nil {
			log.Printf("hide caption %s on %s: %v", h.caption.ID, h.entry.ID, err)
			out.Append(h.entry.ID, h.caption.ID, h.caption.Label, h.caption.Language, "FAILED: "+err.Error())
			continue
		}
		out.Append(h.entry.ID, h.caption.ID, h.caption.Label, h.caption.Language, "HIDDEN")
		res.Hidden++
	}

	path, err := out.Save(reportsDir, "captions_hidden")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

// DownloadOptions controls a caption download run.
type DownloadOptions struct {
	// Dir receives the caption files.
	Dir string
	// SkipChildren leaves multi-stream child entries out.
	SkipChildren bool
	// ToTranscript converts SRT/VTT files to plain text and removes the
	// caption file afterwards.
	ToTranscript bool
	// ReportsDir receives the run report.
	ReportsDir string
}

// DownloadResult summarizes one download run.
type DownloadResult struct {
	Downloaded int
	Converted  int
	Skipped    int
	Failed     int
	ReportPath string
}

// Download fetches every caption of every target entry into opts.Dir,
// named date_entryID_title[_label].ext so files from different runs and
// entries never collide.
func Download(ctx context.Context, client *kaltura.Client, targets []kaltura.MediaEntry, opts DownloadOptions) (*DownloadResult, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create caption dir: %w", err)
	}

	out := report.NewWriter("entry_id", "caption_id", "file", "outcome")
	res := &DownloadResult{}
	fetcher := &http.Client{}
	datePrefix := time.Now().Format("2006-01-02")

	for _, entry := range targets {
		if opts.SkipChildren && entry.IsChild() {
			out.Append(entry.ID, "", "", "SKIPPED: child entry")
			res.Skipped++
			continue
		}
		assets, err := client.ListCaptions(ctx, entry.ID)
		if err != nil {
			return res, fmt.Errorf("list captions of %s: %w", entry.ID, err)
		}
		if len(assets) == 0 {
			out.Append(entry.ID, "", "", "SKIPPED: no captions")
			res.Skipped++
			continue
		}

		for _, asset := range assets {
			url, err := client.CaptionURL(ctx, asset.ID)
			if err != nil {
				out.Append(entry.ID, asset.ID, "", "FAILED: "+err.Error())
				res.Failed++
				continue
			}

			filename := captionFilename(datePrefix, entry, asset, len(assets) > 1)
			path := filepath.Join(opts.Dir, filename)
			if err := fetchFile(ctx, fetcher, url, path); err != nil {
				log.Printf("download caption %s: %v", asset.ID, err)
				out.Append(entry.ID, asset.ID, filename, "FAILED: "+err.Error())
				res.Failed++
				continue
			}
			res.Downloaded++

			if opts.ToTranscript && convertible(asset.FileExt) {
				txtPath, err := ConvertFile(path)
				if err != nil {
					out.Append(entry.ID, asset.ID, filename, "DOWNLOADED, conversion failed: "+err.Error())
					continue
				}
				os.Remove(path)
				out.Append(entry.ID, asset.ID, filepath.Base(txtPath), "CONVERTED")
				res.Converted++
				continue
			}
			out.Append(entry.ID, asset.ID, filename, "DOWNLOADED")
		}
	}

	path, err := out.Save(opts.ReportsDir, "captions_downloaded")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

// captionFilename builds date_entryID_title[_label].ext. The label is
// only added when the entry carries several captions.
func captionFilename(date string, entry kaltura.MediaEntry, asset kaltura.CaptionAsset, multi bool) string {
	ext := asset.FileExt
	if ext == "" {
		ext = strings.ToLower(asset.Format)
	}
	if ext == "" {
		ext = "srt"
	}
	name := date + "_" + entry.ID + "_" + safeName(entry.Name)
	if multi && asset.Label != "" {
		name += "_" + safeName(asset.Label)
	}
	return name + "." + ext
}

var unsafeName = regexp.MustCompile(`[^\w\-]+`)

func safeName(s string) string {
	s = unsafeName.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "untitled"
	}
	return s
}

func convertible(ext string) bool {
	switch strings.ToLower(ext) {
	case "srt", "vtt":
		return true
	}
	return false
}

func fetchFile(ctx context.Context, client *http.Client, url, path string) error {
	return retry.Do(ctx, retry.DefaultConfig(), retry.IsRetryable, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("download returned status %d", resp.StatusCode)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			os.Remove(path)
			return err
		}
		return f.Close()
	})
}
