package entries

import (
	"context"
	"fmt"
	"log"

	"kadmin/kaltura"
)

// RepublishTarget names the category to republish into, either directly
// by id or by course id under a full-name prefix.
type RepublishTarget struct {
	// CategoryID is the direct category id; 0 means look up by course.
	CategoryID int
	// FullNamePrefix plus CourseID locate the category by full name, e.g.
	// prefix "MediaSpace>site>channels>" and course "BIO-101".
	FullNamePrefix string
	CourseID       string
}

// ResolveCategory turns the target into a concrete category id.
func ResolveCategory(ctx context.Context, client *kaltura.Client, target RepublishTarget) (int, error) {
	if target.CategoryID != 0 {
		if _, err := client.GetCategory(ctx, target.CategoryID); err != nil {
			return 0, fmt.Errorf("category %d: %w", target.CategoryID, err)
		}
		return target.CategoryID, nil
	}
	if target.CourseID == "" {
		return 0, fmt.Errorf("give --category or --course")
	}
	fullName := target.FullNamePrefix + target.CourseID
	categories, err := client.ListCategories(ctx, kaltura.CategoryFilter{FullNameEqual: fullName})
	if err != nil {
		return 0, fmt.Errorf("look up category %q: %w", fullName, err)
	}
	if len(categories) == 0 {
		return 0, fmt.Errorf("no category named %q", fullName)
	}
	if len(categories) > 1 {
		return 0, fmt.Errorf("%d categories named %q, use --category", len(categories), fullName)
	}
	return categories[0].ID, nil
}

// Republish removes an entry from a category and adds it back, forcing
// the platform to re-run entitlement and notification processing. The
// placement is verified after each step.
func Republish(ctx context.Context, client *kaltura.Client, entryID string, categoryID int) error {
	if _, err := client.GetEntry(ctx, entryID); err != nil {
		return fmt.Errorf("entry %s: %w", entryID, err)
	}

	placements, err := client.ListCategoryEntries(ctx, kaltura.CategoryEntryFilter{
		CategoryIDEqual: categoryID,
		EntryIDEqual:    entryID,
	})
	if err != nil {
		return fmt.Errorf("check placement: %w", err)
	}

	active := false
	for _, placement := range placements {
		if placement.Status == kaltura.CategoryEntryStatusActive {
			active = true
			break
		}
	}

	if active {
		if err := client.DeleteCategoryEntry(ctx, categoryID, entryID); err != nil {
			return fmt.Errorf("remove from category %d: %w", categoryID, err)
		}
		if published, err := isPublished(ctx, client, categoryID, entryID); err != nil {
			return err
		} else if published {
			return fmt.Errorf("entry %s still published in %d after removal", entryID, categoryID)
		}
		log.Printf("%s removed from category %d", entryID, categoryID)
	} else {
		log.Printf("%s not currently active in category %d, adding", entryID, categoryID)
	}

	if err := client.AddCategoryEntry(ctx, categoryID, entryID); err != nil {
		return fmt.Errorf("add to category %d: %w", categoryID, err)
	}
	published, err := isPublished(ctx, client, categoryID, entryID)
	if err != nil {
		return err
	}
	if !published {
		return fmt.Errorf("entry %s not published in %d after re-add", entryID, categoryID)
	}
	log.Printf("%s republished in category %d", entryID, categoryID)
	return nil
}

func isPublished(ctx context.Context, client *kaltura.Client, categoryID int, entryID string) (bool, error) {
	placements, err := client.ListCategoryEntries(ctx, kaltura.CategoryEntryFilter{
		CategoryIDEqual: categoryID,
		EntryIDEqual:    entryID,
	})
	if err != nil {
		return false, fmt.Errorf("verify placement: %w", err)
	}
	return len(placements) > 0, nil
}
