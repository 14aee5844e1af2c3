// Package channels creates MediaSpace channels in bulk and reports the
// channel roles users hold.
package channels

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"kadmin/kaltura"
	"kadmin/report"
)

// Privacy levels categories understand.
const (
	PrivacyPublic        = 1
	PrivacyAuthenticated = 2
	PrivacyMembers       = 3
)

// ParsePrivacy maps the CSV privacy words onto category privacy levels.
func ParsePrivacy(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "public":
		return PrivacyPublic, nil
	case "restricted", "authenticated":
		return PrivacyAuthenticated, nil
	case "private", "members":
		return PrivacyMembers, nil
	}
	return 0, fmt.Errorf("unknown privacy %q: use open, restricted or private", s)
}

// ChannelPlan is one channel to create, parsed from the CSV.
type ChannelPlan struct {
	Name    string
	Owner   string
	Members []string
	Privacy int
}

// CreateOptions holds the site-wide settings applied to every channel.
type CreateOptions struct {
	// ParentID is the MediaSpace channels category id.
	ParentID int
	// FullNamePrefix of the channels category, used for duplicate checks
	// and MediaSpace links, e.g. "MediaSpace>site>channels>".
	FullNamePrefix string
	// PrivacyContext of the MediaSpace instance.
	PrivacyContext string
	// SiteURL builds the MediaSpace channel links in the report.
	SiteURL string
	// MemberPermission is the level members get (default contributor).
	MemberPermission int
	// ReportsDir receives the run report.
	ReportsDir string
}

// LoadPlan reads and fully validates the channel CSV before anything is
// created. Duplicate names within the file are rejected here; duplicates
// against the server are checked in Create.
func LoadPlan(path string) ([]ChannelPlan, error) {
	rows, err := report.Read(path, "channelname", "owner", "members", "privacy")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	plans := make([]ChannelPlan, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		name := row["channelname"]
		if name == "" {
			return nil, fmt.Errorf("line %d: channelName is empty", line)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("line %d: duplicate channel %q in the file", line, name)
		}
		seen[strings.ToLower(name)] = true
		if row["owner"] == "" {
			return nil, fmt.Errorf("line %d: owner is empty", line)
		}
		privacy, err := ParsePrivacy(row["privacy"])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var members []string
		for _, member := range strings.Split(row["members"], ";") {
			if member = strings.TrimSpace(member); member != "" && member != row["owner"] {
				members = append(members, member)
			}
		}
		plans = append(plans, ChannelPlan{
			Name:    name,
			Owner:   row["owner"],
			Members: members,
			Privacy: privacy,
		})
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%s contains no channel rows", path)
	}
	return plans, nil
}

// CreateResult summarizes one run.
type CreateResult struct {
	Created    int
	Skipped    int
	ReportPath string
}

// Create makes the planned channels under the MediaSpace channels
// category. Names already taken on the server are skipped, not errors:
// re-running a partially applied plan is the usual recovery.
func Create(ctx context.Context, client *kaltura.Client, plans []ChannelPlan, opts CreateOptions) (*CreateResult, error) {
	if opts.ParentID == 0 {
		return nil, fmt.Errorf("no channels parent category configured")
	}
	if opts.MemberPermission == 0 {
		opts.MemberPermission = kaltura.PermissionContributor
	}

	existing, err := client.ListCategories(ctx, kaltura.CategoryFilter{
		FullNameStartsWith: opts.FullNamePrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("list existing channels: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, category := range existing {
		taken[strings.ToLower(category.Name)] = true
	}

	out := report.NewWriter("channel", "category_id", "owner", "members", "privacy", "link", "outcome")
	res := &CreateResult{}

	for _, plan := range plans {
		if taken[strings.ToLower(plan.Name)] {
			out.Append(plan.Name, "", plan.Owner, "", "", "", "SKIPPED: name already exists")
			res.Skipped++
			continue
		}

		created, err := client.AddCategory(ctx, kaltura.NewCategory{
			ParentID:               opts.ParentID,
			Name:                   plan.Name,
			Owner:                  plan.Owner,
			Privacy:                plan.Privacy,
			PrivacyContext:         opts.PrivacyContext,
			AppearInList:           3, // category members only
			InheritanceType:        2, // manual members, no inheritance
			DefaultPermissionLevel: kaltura.PermissionMember,
			ContributionPolicy:     2, // members with contribution permission
			Moderation:             0,
		})
		if err != nil {
			return res, fmt.Errorf("create channel %q: %w", plan.Name, err)
		}
		taken[strings.ToLower(plan.Name)] = true

		added := 0
		for _, member := range plan.Members {
			if err := client.AddCategoryUser(ctx, created.ID, member, opts.MemberPermission); err != nil {
				log.Printf("add %s to channel %q: %v", member, plan.Name, err)
				continue
			}
			added++
		}

		link := ""
		if opts.SiteURL != "" {
			link = fmt.Sprintf("%s/channel/%d", strings.TrimRight(opts.SiteURL, "/"), created.ID)
		}
		out.Append(plan.Name, strconv.Itoa(created.ID), plan.Owner,
			fmt.Sprintf("%d/%d", added, len(plan.Members)),
			strconv.Itoa(plan.Privacy), link, "CREATED")
		res.Created++
	}

	path, err := out.Save(opts.ReportsDir, "channels_created")
	if err != nil {
		return res, err
	}
	res.ReportPath = path
	return res, nil
}
