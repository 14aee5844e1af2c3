package entries

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

	"kadmin/flavors"
	"kadmin/kaltura"
	"kadmin/report"
	"kadmin/retry"
)

// unsafeFilename matches characters stripped from download names.
var unsafeFilename = regexp.MustCompile(`[^\w\- .]+`)

// SafeFilename flattens a title into something every filesystem accepts.
func SafeFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if name == "" {
		return "untitled"
	}
	return name
}

// DownloadResult summarizes one run.
type DownloadResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	ReportPath string
}

// Download fetches the source flavor of every entry into dir. Entries
// without a source are skipped and reported; failures do not stop the
// run.
func Download(ctx context.Context, client *kaltura.Client, targets []kaltura.MediaEntry, dir, reportsDir string) (*DownloadResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	out := report.NewWriter("entry_id", "entry_name", "file", "outcome")
	res := &DownloadResult{}
	fetcher := &http.Client{}

	for _, entry := range targets {
		assets, err := client.ListFlavors(ctx, entry.ID)
		if err != nil {
			return res, fmt.Errorf("list flavors of %s: %w", entry.ID, err)
		}
		source := flavors.PickSource(assets)
		if source == nil {
			out.Append(entry.ID, entry.Name, "", "SKIPPED: no source flavor")
			res.Skipped++
			continue
		}

		url, err := client.FlavorURL(ctx, source.ID)
		if err != nil {
			out.Append(entry.ID, entry.Name, "", "FAILED: "+err.Error())
			res.Failed++
			continue
		}

		ext := source.FileExt
		if ext == "" {
			ext = "mp4"
		}
		filename := fmt.Sprintf("%s_%s.%s", entry.ID, SafeFilename(entry.Name), ext)
		path := filepath.Join(dir, filename)

		if err := fetchFile(ctx, fetcher, url, path); err != nil {
			log.Printf("download %s: %v", entry.ID, err)
			out.Append(entry.ID, entry.Name, filename, "FAILED: "+err.Error())
			res.Failed++
			continue
		}
		out.Append(entry.ID, entry.Name, filename, "DOWNLOADED")
		res.Downloaded++
	}

	path, err := out.Save(reportsDir, "downloads")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}

// fetchFile downloads url to path with retries, leaving no partial file
// behind on failure.
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
