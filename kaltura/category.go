package kaltura

import "context"

// GetCategory fetches one category by id.
func (c *Client) GetCategory(ctx context.Context, categoryID int) (*Category, error) {
	params := Params{}
	params.SetIntAlways("id", categoryID)
	var category Category
	if err := c.request(ctx, "category", "get", params, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories walks every category matching filter.
func (c *Client) ListCategories(ctx context.Context, filter CategoryFilter) ([]Category, error) {
	return listAll[Category](ctx, c, "category", filter)
}

// NewCategory holds the fields category.add accepts.
type NewCategory struct {
	ParentID               int
	Name                   string
	Description            string
	Owner                  string
	Privacy                int
	PrivacyContext         string
	UserJoinPolicy         int
	AppearInList           int
	InheritanceType        int
	DefaultPermissionLevel int
	ContributionPolicy     int
	Moderation             int
}

// AddCategory creates a category under ParentID.
func (c *Client) AddCategory(ctx context.Context, category NewCategory) (*Category, error) {
	params := Params{}
	params.Set("category:objectType", "KalturaCategory")
	params.SetIntAlways("category:parentId", category.ParentID)
	params.Set("category:name", category.Name)
	params.Set("category:description", category.Description)
	params.Set("category:owner", category.Owner)
	params.SetIntAlways("category:privacy", category.Privacy)
	params.Set("category:privacyContext", category.PrivacyContext)
	params.SetIntAlways("category:userJoinPolicy", category.UserJoinPolicy)
	params.SetIntAlways("category:appearInList", category.AppearInList)
	params.SetIntAlways("category:inheritanceType", category.InheritanceType)
	params.SetIntAlways("category:defaultPermissionLevel", category.DefaultPermissionLevel)
	params.SetIntAlways("category:contributionPolicy", category.ContributionPolicy)
	params.SetIntAlways("category:moderation", category.Moderation)
	var created Category
	if err := c.request(ctx, "category", "add", params, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCategoryUsers walks the memberships matching filter.
func (c *Client) ListCategoryUsers(ctx context.Context, filter CategoryUserFilter) ([]CategoryUser, error) {
	return listAll[CategoryUser](ctx, c, "categoryuser", filter)
}

// AddCategoryUser grants a user membership in a category at the given
// permission level.
func (c *Client) AddCategoryUser(ctx context.Context, categoryID int, userID string, permissionLevel int) error {
	params := Params{}
	params.Set("categoryUser:objectType", "KalturaCategoryUser")
	params.SetIntAlways("categoryUser:categoryId", categoryID)
	params.Set("categoryUser:userId", userID)
	params.SetIntAlways("categoryUser:permissionLevel", permissionLevel)
	return c.request(ctx, "categoryuser", "add", params, nil)
}

// UpdateCategoryUser changes an existing membership's permission level.
func (c *Client) UpdateCategoryUser(ctx context.Context, categoryID int, userID string, permissionLevel int) error {
	params := Params{}
	params.SetIntAlways("categoryId", categoryID)
	params.Set("userId", userID)
	params.Set("categoryUser:objectType", "KalturaCategoryUser")
	params.SetIntAlways("categoryUser:permissionLevel", permissionLevel)
	return c.request(ctx, "categoryuser", "update", params, nil)
}

// ListCategoryEntries walks the entry placements matching filter.
func (c *Client) ListCategoryEntries(ctx context.Context, filter CategoryEntryFilter) ([]CategoryEntry, error) {
	return listAll[CategoryEntry](ctx, c, "categoryentry", filter)
}

// AddCategoryEntry publishes an entry into a category.
func (c *Client) AddCategoryEntry(ctx context.Context, categoryID int, entryID string) error {
	params := Params{}
	params.Set("categoryEntry:objectType", "KalturaCategoryEntry")
	params.SetIntAlways("categoryEntry:categoryId", categoryID)
	params.Set("categoryEntry:entryId", entryID)
	return c.request(ctx, "categoryentry", "add", params, nil)
}

// DeleteCategoryEntry removes an entry from a category.
func (c *Client) DeleteCategoryEntry(ctx context.Context, categoryID int, entryID string) error {
	params := Params{}
	params.Set("entryId", entryID)
	params.SetIntAlways("categoryId", categoryID)
	return c.request(ctx, "categoryentry", "delete", params, nil)
}
