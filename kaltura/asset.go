package kaltura

import "context"

// ListCaptions returns every caption asset on an entry.
func (c *Client) ListCaptions(ctx context.Context, entryID string) ([]CaptionAsset, error) {
	filter := AssetFilter{ObjectType: "KalturaCaptionAssetFilter", EntryIDEqual: entryID}
	return listAll[CaptionAsset](ctx, c, "caption_captionasset", filter)
}

// NewCaption describes a caption asset to create on an entry.
type NewCaption struct {
	EntryID   string
	Language  string
	Label     string
	Format    string
	IsDefault int
}

// AddCaption creates an empty caption asset; follow with SetCaptionContent.
func (c *Client) AddCaption(ctx context.Context, caption NewCaption) (*CaptionAsset, error) {
	params := Params{}
	params.Set("entryId", caption.EntryID)
	params.Set("captionAsset:objectType", "KalturaCaptionAsset")
	params.Set("captionAsset:language", caption.Language)
	params.Set("captionAsset:label", caption.Label)
	params.Set("captionAsset:format", caption.Format)
	params.SetInt("captionAsset:isDefault", caption.IsDefault)
	var created CaptionAsset
	if err := c.request(ctx, "caption_captionasset", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetCaptionContent ingests caption content from a URL.
func (c *Client) SetCaptionContent(ctx context.Context, captionID, url string) error {
	params := Params{}
	params.Set("id", captionID)
	params.Set("contentResource:objectType", "KalturaUrlResource")
	params.Set("contentResource:url", url)
	return c.request(ctx, "caption_captionasset", "setContent", params, nil)
}

// SetCaptionVisibility toggles whether a caption is offered in the
// player.
func (c *Client) SetCaptionVisibility(ctx context.Context, captionID string, visible bool) error {
	params := Params{}
	params.Set("id", captionID)
	params.SetBool("captionAsset:displayOnPlayer", visible)
	return c.request(ctx, "caption_captionasset", "update", params, nil)
}

// CaptionURL returns a download URL for a caption asset.
func (c *Client) CaptionURL(ctx context.Context, captionID string) (string, error) {
	params := Params{}
	params.Set("id", captionID)
	var url string
	if err := c.request(ctx, "caption_captionasset", "getUrl", params, &url); err != nil {
		return "", err
	}
	return url, nil
}

// ListFlavors returns every flavor asset on an entry.
func (c *Client) ListFlavors(ctx context.Context, entryID string) ([]FlavorAsset, error) {
	filter := AssetFilter{ObjectType: "KalturaFlavorAssetFilter", EntryIDEqual: entryID}
	return listAll[FlavorAsset](ctx, c, "flavorasset", filter)
}

// DeleteFlavor removes one flavor asset.
func (c *Client) DeleteFlavor(ctx context.Context, flavorID string) error {
	params := Params{}
	params.Set("id", flavorID)
	return c.request(ctx, "flavorasset", "delete", params, nil)
}

// FlavorURL returns a download URL for a flavor asset.
func (c *Client) FlavorURL(ctx context.Context, flavorID string) (string, error) {
	params := Params{}
	params.Set("id", flavorID)
	var url string
	if err := c.request(ctx, "flavorasset", "getUrl", params, &url); err != nil {
		return "", err
	}
	return url, nil
}

// ListThumbs returns every thumbnail asset on an entry.
func (c *Client) ListThumbs(ctx context.Context, entryID string) ([]ThumbAsset, error) {
	filter := AssetFilter{ObjectType: "KalturaThumbAssetFilter", EntryIDEqual: entryID}
	return listAll[ThumbAsset](ctx, c, "thumbasset", filter)
}

// AddThumbFromURL creates a thumbnail on an entry from a remote image
// and returns the new asset.
func (c *Client) AddThumbFromURL(ctx context.Context, entryID, url string) (*ThumbAsset, error) {
	params := Params{}
	params.Set("entryId", entryID)
	params.Set("url", url)
	var created ThumbAsset
	if err := c.request(ctx, "thumbasset", "addFromUrl", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetDefaultThumb marks a thumbnail as the entry's default.
func (c *Client) SetDefaultThumb(ctx context.Context, thumbID string) error {
	params := Params{}
	params.Set("thumbAssetId", thumbID)
	return c.request(ctx, "thumbasset", "setAsDefault", params, nil)
}

// ThumbURL returns a download URL for a thumbnail asset.
func (c *Client) ThumbURL(ctx context.Context, thumbID string) (string, error) {
	params := Params{}
	params.Set("id", thumbID)
	var url string
	if err := c.request(ctx, "thumbasset", "getUrl", params, &url); err != nil {
		return "", err
	}
	return url, nil
}

// ListAttachments returns every attachment asset on an entry, transcript
// assets included.
func (c *Client) ListAttachments(ctx context.Context, entryID string) ([]AttachmentAsset, error) {
	filter := AssetFilter{ObjectType: "KalturaAttachmentAssetFilter", EntryIDEqual: entryID}
	return listAll[AttachmentAsset](ctx, c, "attachment_attachmentasset", filter)
}

// NewAttachment describes an attachment asset to create on an entry.
type NewAttachment struct {
	EntryID     string
	Title       string
	Description string
	Filename    string
	Tags        string
	Format      string
	PartnerData string
}

// AddAttachment creates an empty attachment; follow with
// SetAttachmentContent.
func (c *Client) AddAttachment(ctx context.Context, attachment NewAttachment) (*AttachmentAsset, error) {
	params := Params{}
	params.Set("entryId", attachment.EntryID)
	params.Set("attachmentAsset:objectType", "KalturaAttachmentAsset")
	params.Set("attachmentAsset:title", attachment.Title)
	params.Set("attachmentAsset:description", attachment.Description)
	params.Set("attachmentAsset:filename", attachment.Filename)
	params.Set("attachmentAsset:tags", attachment.Tags)
	params.Set("attachmentAsset:format", attachment.Format)
	params.Set("attachmentAsset:partnerData", attachment.PartnerData)
	var created AttachmentAsset
	if err := c.request(ctx, "attachment_attachmentasset", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SetAttachmentContent ingests attachment content from a URL.
func (c *Client) SetAttachmentContent(ctx context.Context, attachmentID, url string) error {
	params := Params{}
	params.Set("id", attachmentID)
	params.Set("contentResource:objectType", "KalturaUrlResource")
	params.Set("contentResource:url", url)
	return c.request(ctx, "attachment_attachmentasset", "setContent", params, nil)
}

// AttachmentURL returns a download URL for an attachment asset.
func (c *Client) AttachmentURL(ctx context.Context, attachmentID string) (string, error) {
	params := Params{}
	params.Set("id", attachmentID)
	var url string
	if err := c.request(ctx, "attachment_attachmentasset", "getUrl", params, &url); err != nil {
		return "", err
	}
	return url, nil
}
