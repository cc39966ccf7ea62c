// Package pairer matches live and proposed resources into ResourcePairs
// (spec.md §4.2).
package pairer

import "github.com/chartdiff/chartdiff/internal/types"

// Pair groups old and new resources by identity key into ResourcePairs. The
// output order is the union of the two key sequences, old first, preserving
// first-seen order, with duplicate keys suppressed.
func Pair(old, newRes []types.Resource) []types.ResourcePair {
	oldByKey := make(map[string]*types.Resource, len(old))
	newByKey := make(map[string]*types.Resource, len(newRes))

	var order []string

	seen := make(map[string]bool)

	for i := range old {
		key := old[i].Key()
		if _, exists := oldByKey[key]; !exists {
			oldByKey[key] = &old[i]
		}

		if !seen[key] {
			seen[key] = true

			order = append(order, key)
		}
	}

	for i := range newRes {
		key := newRes[i].Key()
		if _, exists := newByKey[key]; !exists {
			newByKey[key] = &newRes[i]
		}

		if !seen[key] {
			seen[key] = true

			order = append(order, key)
		}
	}

	pairs := make([]types.ResourcePair, 0, len(order))

	for _, key := range order {
		o, hasOld := oldByKey[key]
		n, hasNew := newByKey[key]

		status := types.StatusChanged

		switch {
		case hasOld && !hasNew:
			status = types.StatusRemoved
		case !hasOld && hasNew:
			status = types.StatusAdded
		}

		pairs = append(pairs, types.ResourcePair{
			Key:    key,
			Old:    o,
			New:    n,
			Status: status,
		})
	}

	return pairs
}
