// Package flavors trims entries down to their source flavor, reclaiming
// the storage the transcoded renditions occupy.
package flavors

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"kadmin/kaltura"
	"kadmin/prompt"
	"kadmin/report"
)

// PickSource returns the flavor holding the original upload: the one
// flagged isOriginal, else one tagged "source", else the largest by size.
// Nil means the entry has no flavors at all.
func PickSource(assets []kaltura.FlavorAsset) *kaltura.FlavorAsset {
	if len(assets) == 0 {
		return nil
	}
	for i := range assets {
		if assets[i].IsOriginal {
			return &assets[i]
		}
	}
	for i := range assets {
		for _, tag := range strings.Split(assets[i].Tags, ",") {
			if strings.TrimSpace(tag) == "source" {
				return &assets[i]
			}
		}
	}
	largest := &assets[0]
	for i := range assets[1:] {
		if assets[i+1].Bytes() > largest.Bytes() {
			largest = &assets[i+1]
		}
	}
	return largest
}

// entryPlan is the deletion plan for one entry.
type entryPlan struct {
	entry   kaltura.MediaEntry
	source  kaltura.FlavorAsset
	doomed  []kaltura.FlavorAsset
	skipped string // non-empty reason when the entry is left alone
}

// Plan is the full deletion plan for a run.
type Plan struct {
	entries   []entryPlan
	ToDelete  int
	Kilobytes int64
}

// BuildPlan lists the flavors of every entry and decides what to delete.
// Entries with a single flavor are skipped: the only flavor is the
// source. KeepTags protects renditions whose tags match, mpeg4's "web"
// flavor for instance.
func BuildPlan(ctx context.Context, client *kaltura.Client, targets []kaltura.MediaEntry, keepTags []string) (*Plan, error) {
	plan := &Plan{}
	for _, entry := range targets {
		assets, err := client.ListFlavors(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("list flavors of %s: %w", entry.ID, err)
		}
		source := PickSource(assets)
		if source == nil {
			plan.entries = append(plan.entries, entryPlan{entry: entry, skipped: "no flavors"})
			continue
		}
		if len(assets) == 1 {
			plan.entries = append(plan.entries, entryPlan{entry: entry, source: *source, skipped: "single flavor"})
			continue
		}

		ep := entryPlan{entry: entry, source: *source}
		for _, asset := range assets {
			if asset.ID == source.ID || keptByTag(asset, keepTags) {
				continue
			}
			ep.doomed = append(ep.doomed, asset)
			plan.ToDelete++
			plan.Kilobytes += asset.Bytes() / 1024
		}
		if len(ep.doomed) == 0 {
			ep.skipped = "nothing beyond source and kept tags"
		}
		plan.entries = append(plan.entries, ep)
	}
	return plan, nil
}

func keptByTag(asset kaltura.FlavorAsset, keepTags []string) bool {
	for _, keep := range keepTags {
		for _, tag := range strings.Split(asset.Tags, ",") {
			if strings.TrimSpace(tag) == keep {
				return true
			}
		}
	}
	return false
}

// WritePreview saves the plan as a CSV and returns its path.
func (p *Plan) WritePreview(reportsDir string) (string, error) {
	out := report.NewWriter("entry_id", "entry_name", "flavor_id", "flavor_params_id", "size_kb", "action")
	for _, ep := range p.entries {
		if ep.skipped != "" {
			out.Append(ep.entry.ID, ep.entry.Name, "", "", "", "SKIP: "+ep.skipped)
			continue
		}
		out.Append(ep.entry.ID, ep.entry.Name, ep.source.ID,
			strconv.Itoa(ep.source.FlavorParamsID),
			strconv.FormatInt(ep.source.Bytes()/1024, 10), "KEEP (source)")
		for _, doomed := range ep.doomed {
			out.Append(ep.entry.ID, ep.entry.Name, doomed.ID,
				strconv.Itoa(doomed.FlavorParamsID),
				strconv.FormatInt(doomed.Bytes()/1024, 10), "DELETE")
		}
	}
	return out.Save(reportsDir, "flavors_preview")
}

// Summary returns the one-line plan description shown before the gate.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%d flavors across %d entries, reclaiming about %d MB",
		p.ToDelete, len(p.entries), p.Kilobytes/1024)
}

// Result summarizes the execution of a plan.
type Result struct {
	Deleted     int
	Failed      int
	KBReclaimed int64
	ResultPath  string
}

// Execute deletes the planned flavors with a bounded worker pool after a
// typed confirmation. Entries fail independently; the result CSV marks
// each DELETED, PARTIAL or FAILED.
func Execute(ctx context.Context, client *kaltura.Client, p *prompt.Prompter, plan *Plan, workers int, reportsDir string) (*Result, error) {
	if plan.ToDelete == 0 {
		return nil, fmt.Errorf("plan is empty, nothing to delete")
	}
	ok, err := p.ConfirmTyped("This permanently deletes "+plan.Summary()+".", "DELETE")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("aborted")
	}
	if workers <= 0 {
		workers = 1
	}

	out := report.NewWriter("entry_id", "entry_name", "outcome", "deleted", "failed", "kb_reclaimed")
	res := &Result{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, ep := range plan.entries {
		if ep.skipped != "" || len(ep.doomed) == 0 {
			continue
		}
		g.Go(func() error {
			deleted, failed := 0, 0
			var kb int64
			for _, doomed := range ep.doomed {
				if err := client.DeleteFlavor(gctx, doomed.ID); err != nil {
					log.Printf("delete flavor %s of %s: %v", doomed.ID, ep.entry.ID, err)
					failed++
					continue
				}
				deleted++
				kb += doomed.Bytes() / 1024
			}
			outcome := "DELETED"
			switch {
			case deleted == 0:
				outcome = "FAILED"
			case failed > 0:
				outcome = "PARTIAL"
			}
			mu.Lock()
			out.Append(ep.entry.ID, ep.entry.Name, outcome,
				strconv.Itoa(deleted), strconv.Itoa(failed),
				strconv.FormatInt(kb, 10))
			res.Deleted += deleted
			res.Failed += failed
			res.KBReclaimed += kb
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	path, err := out.Save(reportsDir, "flavors_result")
	if err != nil {
		return res, err
	}
	res.ResultPath = path
	return res, nil
}
