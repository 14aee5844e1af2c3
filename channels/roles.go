package channels

import (
	"context"
	"fmt"
	"strconv"

	"kadmin/kaltura"
	"kadmin/report"
)

// RoleName maps a membership onto the MediaSpace role words. Category
// ownership outranks any membership level.
func RoleName(category kaltura.Category, membership kaltura.CategoryUser) string {
	if category.Owner != "" && category.Owner == membership.UserID {
		return "owner"
	}
	switch membership.PermissionLevel {
	case kaltura.PermissionManager:
		return "manager"
	case kaltura.PermissionModerator:
		return "moderator"
	case kaltura.PermissionContributor:
		return "contributor"
	case kaltura.PermissionMember:
		return "member"
	}
	return "none"
}

// UserSummary counts one user's roles across their channels.
type UserSummary struct {
	UserID string
	Counts map[string]int
	Total  int
}

// RolesResult summarizes one run.
type RolesResult struct {
	Summaries  []UserSummary
	ReportPath string
}

// Roles lists every channel membership of the given users and writes one
// aggregate CSV with the channel hierarchy and role per membership.
func Roles(ctx context.Context, client *kaltura.Client, userIDs []string, reportsDir string) (*RolesResult, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("no user ids given")
	}

	out := report.NewWriter("user_id", "category_id", "channel", "full_path", "role")
	res := &RolesResult{}
	categoryCache := map[int]*kaltura.Category{}

	for _, userID := range userIDs {
		memberships, err := client.ListCategoryUsers(ctx, kaltura.CategoryUserFilter{UserIDEqual: userID})
		if err != nil {
			return res, fmt.Errorf("list memberships of %s: %w", userID, err)
		}

		summary := UserSummary{UserID: userID, Counts: map[string]int{}}
		for _, membership := range memberships {
			category, ok := categoryCache[membership.CategoryID]
			if !ok {
				category, err = client.GetCategory(ctx, membership.CategoryID)
				if err != nil {
					if kaltura.IsNotFound(err) {
						out.Append(userID, strconv.Itoa(membership.CategoryID), "", "", "ORPHANED")
						continue
					}
					return res, fmt.Errorf("resolve category %d: %w", membership.CategoryID, err)
				}
				categoryCache[membership.CategoryID] = category
			}
			role := RoleName(*category, membership)
			out.Append(userID, strconv.Itoa(category.ID), category.Name, category.FullName, role)
			summary.Counts[role]++
			summary.Total++
		}
		res.Summaries = append(res.Summaries, summary)
	}

	path, err := out.Save(reportsDir, "channel_roles")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}
