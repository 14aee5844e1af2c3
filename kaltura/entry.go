package kaltura

import "context"

// EntryUpdate carries the fields an entry update may touch. Nil fields
// are left untouched server-side.
type EntryUpdate struct {
	Name                 *string
	Description          *string
	Tags                 *string
	UserID               *string
	CreatorID            *string
	EntitledUsersEdit    *string
	EntitledUsersPublish *string
	DisplayInSearch      *int
}

func (u EntryUpdate) apply(prefix string, params Params) {
	setOpt := func(key string, v *string) {
		if v != nil {
			params[prefix+":"+key] = *v
		}
	}
	setOpt("name", u.Name)
	setOpt("description", u.Description)
	setOpt("tags", u.Tags)
	setOpt("userId", u.UserID)
	setOpt("creatorId", u.CreatorID)
	setOpt("entitledUsersEdit", u.EntitledUsersEdit)
	setOpt("entitledUsersPublish", u.EntitledUsersPublish)
	if u.DisplayInSearch != nil {
		params.SetIntAlways(prefix+":displayInSearch", *u.DisplayInSearch)
	}
}

// GetEntry fetches one entry by id via baseEntry.get, which resolves any
// entry kind.
func (c *Client) GetEntry(ctx context.Context, entryID string) (*MediaEntry, error) {
	params := Params{}
	params.Set("entryId", entryID)
	var entry MediaEntry
	if err := c.request(ctx, "baseEntry", "get", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries fetches one page of entries matching filter.
func (c *Client) ListEntries(ctx context.Context, filter EntryFilter, pager Pager) ([]MediaEntry, int, error) {
	return listPage[MediaEntry](ctx, c, "media", filter, pager)
}

// ListAllEntries walks every page of entries matching filter. The server
// caps filtered results at 10,000 matches; ErrMaxMatches signals the
// caller to narrow the filter, typically by creation window.
func (c *Client) ListAllEntries(ctx context.Context, filter EntryFilter) ([]MediaEntry, error) {
	return listAll[MediaEntry](ctx, c, "media", filter)
}

// ListAllBaseEntries walks entries through the baseEntry service, which
// also returns non-media kinds such as quizzes and playlists.
func (c *Client) ListAllBaseEntries(ctx context.Context, filter EntryFilter) ([]MediaEntry, error) {
	if filter.ObjectType == "" {
		filter.ObjectType = "KalturaBaseEntryFilter"
	}
	return listAll[MediaEntry](ctx, c, "baseEntry", filter)
}

// CountEntries returns the number of entries matching filter without
// fetching them.
func (c *Client) CountEntries(ctx context.Context, filter EntryFilter) (int, error) {
	return count(ctx, c, "media", filter)
}

// UpdateEntry applies a partial update to an entry.
func (c *Client) UpdateEntry(ctx context.Context, entryID string, update EntryUpdate) (*MediaEntry, error) {
	params := Params{}
	params.Set("entryId", entryID)
	update.apply("baseEntry", params)
	var entry MediaEntry
	if err := c.request(ctx, "baseEntry", "update", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry permanently deletes an entry.
func (c *Client) DeleteEntry(ctx context.Context, entryID string) error {
	params := Params{}
	params.Set("entryId", entryID)
	return c.request(ctx, "baseEntry", "delete", params, nil)
}

// RecycleEntry moves an entry to the recycle bin, where the platform
// keeps it for a grace period before purging.
func (c *Client) RecycleEntry(ctx context.Context, entryID string) error {
	params := Params{}
	params.Set("entryId", entryID)
	return c.request(ctx, "baseEntry", "recycle", params, nil)
}

// NewEntry holds the fields media.add accepts for a fresh entry.
type NewEntry struct {
	Name                 string
	Description          string
	Tags                 string
	UserID               string
	CreatorID            string
	MediaType            int
	ParentEntryID        string
	ConversionProfileID  int
	EntitledUsersEdit    string
	EntitledUsersPublish string
}

// AddEntry creates a media entry with no content attached yet. Pair it
// with AttachURL or UpdateContentFromEntry to ingest media.
func (c *Client) AddEntry(ctx context.Context, entry NewEntry) (*MediaEntry, error) {
	params := Params{}
	params.Set("entry:objectType", "KalturaMediaEntry")
	params.Set("entry:name", entry.Name)
	params.Set("entry:description", entry.Description)
	params.Set("entry:tags", entry.Tags)
	params.Set("entry:userId", entry.UserID)
	params.Set("entry:creatorId", entry.CreatorID)
	params.SetInt("entry:mediaType", entry.MediaType)
	params.Set("entry:parentEntryId", entry.ParentEntryID)
	params.SetInt("entry:conversionProfileId", entry.ConversionProfileID)
	params.Set("entry:entitledUsersEdit", entry.EntitledUsersEdit)
	params.Set("entry:entitledUsersPublish", entry.EntitledUsersPublish)
	var created MediaEntry
	if err := c.request(ctx, "media", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AttachURL ingests remote content into an entry via a URL resource.
func (c *Client) AttachURL(ctx context.Context, entryID, url string) (*MediaEntry, error) {
	params := Params{}
	params.Set("entryId", entryID)
	params.Set("resource:objectType", "KalturaUrlResource")
	params.Set("resource:url", url)
	var entry MediaEntry
	if err := c.request(ctx, "media", "updateContent", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CloneEntry server-side clones an entry within the same account.
func (c *Client) CloneEntry(ctx context.Context, entryID string) (*MediaEntry, error) {
	params := Params{}
	params.Set("entryId", entryID)
	var entry MediaEntry
	if err := c.request(ctx, "baseEntry", "clone", params, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
