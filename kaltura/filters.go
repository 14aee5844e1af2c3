package kaltura

import (
	"context"
	"strconv"
	"strings"
)

// DefaultPageSize is the page size used for list calls. 500 is the
// server-side maximum.
const DefaultPageSize = 500

// maxListMatches is the server cap on filtered list results. Past it the
// API refuses further pages, so callers chunk by creation window instead.
const maxListMatches = 10000

// Pager controls list pagination. Zero values fall back to page 1 with
// DefaultPageSize.
type Pager struct {
	PageSize  int
	PageIndex int
}

func (p Pager) apply(params Params) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	index := p.PageIndex
	if index <= 0 {
		index = 1
	}
	params.SetIntAlways("pager:pageSize", size)
	params.SetIntAlways("pager:pageIndex", index)
	params.Set("pager:objectType", "KalturaFilterPager")
}

// Filter is a serializable API filter. Implementations write their
// fields as filter:* form parameters.
type Filter interface {
	apply(params Params)
}

// EntryFilter selects media/base entries. Empty fields are omitted from
// the request.
type EntryFilter struct {
	// ObjectType overrides the filter class, e.g. "KalturaBaseEntryFilter".
	// Defaults to KalturaMediaEntryFilter.
	ObjectType string

	IDEqual               string
	IDIn                  string
	ParentEntryIDEqual    string
	RootEntryIDEqual      string
	UserIDEqual           string
	TagsLike              string
	TagsMultiLikeOr       string
	CategoriesIDsMatchOr  string
	CategoryAncestorIDIn  string
	FreeText              string
	MediaTypeEqual        int
	StatusIn              string
	CreatedAtGreaterEqual int64
	CreatedAtLessEqual    int64
	OrderBy               string
}

func (f EntryFilter) apply(params Params) {
	objectType := f.ObjectType
	if objectType == "" {
		objectType = "KalturaMediaEntryFilter"
	}
	params.Set("filter:objectType", objectType)
	params.Set("filter:idEqual", f.IDEqual)
	params.Set("filter:idIn", f.IDIn)
	params.Set("filter:parentEntryIdEqual", f.ParentEntryIDEqual)
	params.Set("filter:rootEntryIdEqual", f.RootEntryIDEqual)
	params.Set("filter:userIdEqual", f.UserIDEqual)
	params.Set("filter:tagsLike", f.TagsLike)
	params.Set("filter:tagsMultiLikeOr", f.TagsMultiLikeOr)
	params.Set("filter:categoriesIdsMatchOr", f.CategoriesIDsMatchOr)
	params.Set("filter:categoryAncestorIdIn", f.CategoryAncestorIDIn)
	params.Set("filter:freeText", f.FreeText)
	params.SetInt("filter:mediaTypeEqual", f.MediaTypeEqual)
	params.Set("filter:statusIn", f.StatusIn)
	params.SetInt64("filter:createdAtGreaterThanOrEqual", f.CreatedAtGreaterEqual)
	params.SetInt64("filter:createdAtLessThanOrEqual", f.CreatedAtLessEqual)
	params.Set("filter:orderBy", f.OrderBy)
}

// CuePointFilter selects cue points, usually scoped to one entry.
type CuePointFilter struct {
	EntryIDEqual      string
	EntryIDIn         string
	CuePointTypeEqual string
	CuePointTypeIn    string
	TagsLike          string
	OrderBy           string
}

func (f CuePointFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaCuePointFilter")
	params.Set("filter:entryIdEqual", f.EntryIDEqual)
	params.Set("filter:entryIdIn", f.EntryIDIn)
	params.Set("filter:cuePointTypeEqual", f.CuePointTypeEqual)
	params.Set("filter:cuePointTypeIn", f.CuePointTypeIn)
	params.Set("filter:tagsLike", f.TagsLike)
	params.Set("filter:orderBy", f.OrderBy)
}

// AssetFilter selects caption, flavor, thumb or attachment assets.
type AssetFilter struct {
	// ObjectType names the asset filter class, e.g. "KalturaCaptionAssetFilter".
	ObjectType     string
	EntryIDEqual   string
	EntryIDIn      string
	TagsLike       string
	FormatEqual    string
	StatusEqual    int
	HasStatusEqual bool
}

func (f AssetFilter) apply(params Params) {
	params.Set("filter:objectType", f.ObjectType)
	params.Set("filter:entryIdEqual", f.EntryIDEqual)
	params.Set("filter:entryIdIn", f.EntryIDIn)
	params.Set("filter:tagsLike", f.TagsLike)
	params.Set("filter:formatEqual", f.FormatEqual)
	if f.HasStatusEqual {
		params.SetIntAlways("filter:statusEqual", f.StatusEqual)
	}
}

// CategoryFilter selects categories.
type CategoryFilter struct {
	IDEqual            int
	IDIn               string
	ParentIDEqual      int
	HasParentIDEqual   bool
	FullNameEqual      string
	FullNameStartsWith string
	AncestorIDEqual    int
}

func (f CategoryFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaCategoryFilter")
	params.SetInt("filter:idEqual", f.IDEqual)
	params.Set("filter:idIn", f.IDIn)
	if f.HasParentIDEqual {
		params.SetIntAlways("filter:parentIdEqual", f.ParentIDEqual)
	} else {
		params.SetInt("filter:parentIdEqual", f.ParentIDEqual)
	}
	params.Set("filter:fullNameEqual", f.FullNameEqual)
	params.Set("filter:fullNameStartsWith", f.FullNameStartsWith)
	params.SetInt("filter:ancestorIdEqual", f.AncestorIDEqual)
}

// CategoryUserFilter selects category memberships.
type CategoryUserFilter struct {
	CategoryIDEqual int
	UserIDEqual     string
}

func (f CategoryUserFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaCategoryUserFilter")
	params.SetInt("filter:categoryIdEqual", f.CategoryIDEqual)
	params.Set("filter:userIdEqual", f.UserIDEqual)
}

// CategoryEntryFilter selects entry placements in categories.
type CategoryEntryFilter struct {
	CategoryIDEqual int
	EntryIDEqual    string
	EntryIDIn       string
}

func (f CategoryEntryFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaCategoryEntryFilter")
	params.SetInt("filter:categoryIdEqual", f.CategoryIDEqual)
	params.Set("filter:entryIdEqual", f.EntryIDEqual)
	params.Set("filter:entryIdIn", f.EntryIDIn)
}

// UserEntryFilter selects user entries; set Quiz for quiz submissions.
type UserEntryFilter struct {
	Quiz         bool
	EntryIDEqual string
	UserIDEqual  string
}

func (f UserEntryFilter) apply(params Params) {
	objectType := "KalturaUserEntryFilter"
	if f.Quiz {
		objectType = "KalturaQuizUserEntryFilter"
	}
	params.Set("filter:objectType", objectType)
	params.Set("filter:entryIdEqual", f.EntryIDEqual)
	params.Set("filter:userIdEqual", f.UserIDEqual)
}

// AuditTrailFilter selects audit records for one object.
type AuditTrailFilter struct {
	ObjectIDEqual         string
	ActionIn              string
	CreatedAtGreaterEqual int64
	CreatedAtLessEqual    int64
}

func (f AuditTrailFilter) apply(params Params) {
	params.Set("filter:objectType", "KalturaAuditTrailFilter")
	params.Set("filter:objectIdEqual", f.ObjectIDEqual)
	params.Set("filter:actionIn", f.ActionIn)
	params.SetInt64("filter:createdAtGreaterThanOrEqual", f.CreatedAtGreaterEqual)
	params.SetInt64("filter:createdAtLessThanOrEqual", f.CreatedAtLessEqual)
}

// listResult is the wire envelope of every *.list action.
type listResult[T any] struct {
	Objects    []T `json:"objects"`
	TotalCount int `json:"totalCount"`
}

// listPage fetches a single page of a list action.
func listPage[T any](ctx context.Context, c *Client, service string, filter Filter, pager Pager) ([]T, int, error) {
	params := Params{}
	filter.apply(params)
	pager.apply(params)
	var result listResult[T]
	if err := c.request(ctx, service, "list", params, &result); err != nil {
		return nil, 0, err
	}
	return result.Objects, result.TotalCount, nil
}

// listAll walks every page of a list action until a short page arrives.
// It surfaces ErrMaxMatches untouched so callers can narrow the filter.
func listAll[T any](ctx context.Context, c *Client, service string, filter Filter) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		objects, _, err := listPage[T](ctx, c, service, filter, Pager{PageSize: DefaultPageSize, PageIndex: page})
		if err != nil {
			return all, err
		}
		all = append(all, objects...)
		if len(objects) < DefaultPageSize {
			return all, nil
		}
	}
}

// Count runs a list action with a one-item page and returns totalCount
// only.
func count(ctx context.Context, c *Client, service string, filter Filter) (int, error) {
	_, total, err := listPage[struct{}](ctx, c, service, filter, Pager{PageSize: 1, PageIndex: 1})
	return total, err
}

// IDInList joins ids for *In filter fields, which take comma-separated
// values.
func IDInList(ids []string) string {
	return strings.Join(ids, ",")
}

// IntIDInList joins numeric ids for *In filter fields.
func IntIDInList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
