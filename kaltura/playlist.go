package kaltura

import "context"

// GetPlaylist fetches one playlist by id.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	params := Params{}
	params.Set("id", playlistID)
	var playlist Playlist
	if err := c.request(ctx, "playlist", "get", params, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ClonePlaylist copies a playlist, optionally renaming the copy.
func (c *Client) ClonePlaylist(ctx context.Context, playlistID, newName string) (*Playlist, error) {
	params := Params{}
	params.Set("id", playlistID)
	if newName != "" {
		params.Set("newPlaylist:objectType", "KalturaPlaylist")
		params.Set("newPlaylist:name", newName)
	}
	var cloned Playlist
	if err := c.request(ctx, "playlist", "clone", params, &cloned); err != nil {
		return nil, err
	}
	return &cloned, nil
}

// UpdatePlaylistContent replaces the ordered entry list of a manual
// playlist. Content is a comma-separated entry id list.
func (c *Client) UpdatePlaylistContent(ctx context.Context, playlistID, content string) (*Playlist, error) {
	params := Params{}
	params.Set("id", playlistID)
	params.Set("playlist:objectType", "KalturaPlaylist")
	params.Set("playlist:playlistContent", content)
	var updated Playlist
	if err := c.request(ctx, "playlist", "update", params, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListMetadata returns the custom metadata records on one object.
func (c *Client) ListMetadata(ctx context.Context, objectID string) ([]Metadata, error) {
	filter := metadataFilter{objectID: objectID}
	return listAll[Metadata](ctx, c, "metadata_metadata", filter)
}

// UpdateMetadata replaces the XML payload of a metadata record.
func (c *Client) UpdateMetadata(ctx context.Context, metadataID int, xml string) (*Metadata, error) {
	params := Params{}
	params.SetIntAlways("id", metadataID)
	params.Set("xmlData", xml)
	var updated Metadata
	if err := c.request(ctx, "metadata_metadata", "update", params, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

type metadataFilter struct {
	objectID string
}

func (f metadataFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaMetadataFilter")
	params.Set("filter:objectIdEqual", f.objectID)
}
