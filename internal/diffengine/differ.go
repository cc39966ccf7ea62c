// Package diffengine implements the semantic diff core: noise stripping,
// normalization, semantic equality, and field-level change extraction
// (spec.md §4.3).
package diffengine

import (
	"github.com/chartdiff/chartdiff/internal/types"
)

// DiffAll runs the full diff pipeline over every pair and returns one
// ChangeRecord per pair (spec.md §4.3.5). Added and removed pairs always
// carry empty Changes per spec.md §3/§4.3.5 — there is nothing on one side
// to walk against, and the whole-resource nature of the change is carried
// by Status, not by a synthetic field change. Unchanged pairs that
// genuinely have no differences are omitted unless showAll is set.
func DiffAll(pairs []types.ResourcePair, showAll bool, extraIgnores []string) []types.ChangeRecord {
	patterns := append(append([]string{}, DefaultNoisePaths...), extraIgnores...)

	records := make([]types.ChangeRecord, 0, len(pairs))

	for _, p := range pairs {
		rec := diffPair(p, patterns)

		if !showAll && rec.Status == types.StatusUnchanged {
			continue
		}

		records = append(records, rec)
	}

	return records
}

func diffPair(p types.ResourcePair, patterns []string) types.ChangeRecord {
	rec := types.ChangeRecord{
		ResourceKey: p.Key,
		Status:      p.Status,
	}

	if p.Old != nil {
		rec.Kind = p.Old.Kind
		rec.Name = p.Old.Name
		rec.Namespace = p.Old.Namespace
	} else if p.New != nil {
		rec.Kind = p.New.Kind
		rec.Name = p.New.Name
		rec.Namespace = p.New.Namespace
	}

	switch p.Status {
	case types.StatusRemoved, types.StatusAdded:
		// Changes stays empty: nothing on the missing side to diff
		// field-by-field against (spec.md §3, §4.3.5).
	default:
		oldBody := Normalize(StripNoise(p.Old.Body, patterns))
		newBody := Normalize(StripNoise(p.New.Body, patterns))

		rec.Changes = ExtractChanges(oldBody, newBody)

		if len(rec.Changes) == 0 {
			rec.Status = types.StatusUnchanged
		}
	}

	return rec
}
