package crd

import (
	"github.com/chartdiff/chartdiff/internal/diffengine"
	"github.com/chartdiff/chartdiff/internal/types"
)

// NoisePaths extends the general noise list (spec.md §4.5.2) with fields
// specific to CRD objects: the last-applied-configuration annotation and
// the helm.sh/chart label, on top of everything in
// diffengine.DefaultNoisePaths.
var NoisePaths = append(append([]string{}, diffengine.DefaultNoisePaths...),
	`metadata.annotations.kubectl\.kubernetes\.io/last-applied-configuration`,
	`metadata.labels.helm\.sh/chart`,
)

// Pair matches installed and proposed CRDs by metadata.name, producing the
// same union-of-keys, first-seen-order ResourcePair list the general pairer
// produces for ordinary resources.
func Pair(installed, proposed []types.Resource) []types.ResourcePair {
	installedByName := make(map[string]*types.Resource, len(installed))
	proposedByName := make(map[string]*types.Resource, len(proposed))

	var order []string

	seen := make(map[string]bool)

	for i := range installed {
		name := installed[i].Name
		if _, exists := installedByName[name]; !exists {
			installedByName[name] = &installed[i]
		}

		if !seen[name] {
			seen[name] = true

			order = append(order, name)
		}
	}

	for i := range proposed {
		name := proposed[i].Name
		if _, exists := proposedByName[name]; !exists {
			proposedByName[name] = &proposed[i]
		}

		if !seen[name] {
			seen[name] = true

			order = append(order, name)
		}
	}

	pairs := make([]types.ResourcePair, 0, len(order))

	for _, name := range order {
		o, hasOld := installedByName[name]
		n, hasNew := proposedByName[name]

		status := types.StatusChanged

		switch {
		case hasOld && !hasNew:
			status = types.StatusRemoved
		case !hasOld && hasNew:
			status = types.StatusAdded
		}

		pairs = append(pairs, types.ResourcePair{
			Key:    name,
			Old:    o,
			New:    n,
			Status: status,
		})
	}

	return pairs
}

// Diff runs normalize + semantic equality + change extraction (spec.md
// §4.3) over one CRD pair's bodies using the CRD-extended noise list.
func Diff(p types.ResourcePair) []types.FieldChange {
	switch p.Status {
	case types.StatusAdded, types.StatusRemoved:
		return nil
	}

	oldBody := diffengine.Normalize(diffengine.StripNoise(p.Old.Body, NoisePaths))
	newBody := diffengine.Normalize(diffengine.StripNoise(p.New.Body, NoisePaths))

	return diffengine.ExtractChanges(oldBody, newBody)
}
