package duplicate

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"kadmin/kaltura"
	"kadmin/report"
)

// channelPlaylistsPattern locates the playlist id list inside a channel's
// metadata XML.
var channelPlaylistsPattern = regexp.MustCompile(`<channelPlaylistsIds>([^<]*)</channelPlaylistsIds>`)

// PlaylistIDs extracts the channel playlist ids from metadata XML.
func PlaylistIDs(metadataXML string) []string {
	match := channelPlaylistsPattern.FindStringSubmatch(metadataXML)
	if match == nil {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(match[1], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// MergePlaylistIDs rewrites metadata XML so its channelPlaylistsIds
// holds the union of the existing ids and added, preserving order. XML
// without the element gets one appended inside the root metadata element.
func MergePlaylistIDs(metadataXML string, added []string) string {
	existing := PlaylistIDs(metadataXML)
	seen := make(map[string]bool, len(existing))
	merged := existing
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range added {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
		}
	}
	element := "<channelPlaylistsIds>" + strings.Join(merged, ",") + "</channelPlaylistsIds>"

	if channelPlaylistsPattern.MatchString(metadataXML) {
		return channelPlaylistsPattern.ReplaceAllString(metadataXML, element)
	}
	if i := strings.LastIndex(metadataXML, "</metadata>"); i >= 0 {
		return metadataXML[:i] + element + metadataXML[i:]
	}
	return "<metadata>" + element + "</metadata>"
}

// PlaylistsResult summarizes one playlist duplication run.
type PlaylistsResult struct {
	Cloned     int
	ReportPath string
}

// Playlists clones the playlists of one channel category onto another:
// each playlist id found in the source category's metadata is cloned and
// the clone ids are merged into the destination category's metadata.
func Playlists(ctx context.Context, client *kaltura.Client, sourceCategoryID, destCategoryID int, reportsDir string) (*PlaylistsResult, error) {
	sourceMeta, err := categoryMetadata(ctx, client, sourceCategoryID)
	if err != nil {
		return nil, err
	}
	playlistIDs := PlaylistIDs(sourceMeta.XML)
	if len(playlistIDs) == 0 {
		return nil, fmt.Errorf("category %d has no channel playlists", sourceCategoryID)
	}

	out := report.NewWriter("source_playlist_id", "clone_playlist_id", "name")
	var cloneIDs []string
	for _, playlistID := range playlistIDs {
		cloned, err := client.ClonePlaylist(ctx, playlistID, "")
		if err != nil {
			return nil, fmt.Errorf("clone playlist %s: %w", playlistID, err)
		}
		cloneIDs = append(cloneIDs, cloned.ID)
		out.Append(playlistID, cloned.ID, cloned.Name)
		log.Printf("playlist %s cloned as %s", playlistID, cloned.ID)
	}

	destMeta, err := categoryMetadata(ctx, client, destCategoryID)
	if err != nil {
		return nil, err
	}
	mergedXML := MergePlaylistIDs(destMeta.XML, cloneIDs)
	if _, err := client.UpdateMetadata(ctx, destMeta.ID, mergedXML); err != nil {
		return nil, fmt.Errorf("update destination metadata: %w", err)
	}

	path, err := out.Save(reportsDir, "duplicated_playlists")
	if err != nil {
		return nil, err
	}
	return &PlaylistsResult{Cloned: len(cloneIDs), ReportPath: path}, nil
}

func categoryMetadata(ctx context.Context, client *kaltura.Client, categoryID int) (*kaltura.Metadata, error) {
	records, err := client.ListMetadata(ctx, fmt.Sprintf("%d", categoryID))
	if err != nil {
		return nil, fmt.Errorf("list metadata of category %d: %w", categoryID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("category %d has no metadata record", categoryID)
	}
	return &records[0], nil
}
