package diffengine

import (
	"fmt"
	"sort"

	"github.com/chartdiff/chartdiff/internal/path"
	"github.com/chartdiff/chartdiff/internal/types"
)

// ExtractChanges walks old and newBody (already stripped and normalized) in
// lockstep and returns every FieldChange between them, per spec.md §4.3.4.
// Scalars that differ by type (e.g. a string replaced by a mapping) are
// reported as type_changed; scalars of the same type that differ in value
// are value_changed; keys/indices present on only one side are item_added
// or item_removed. The result is sorted by (Path, ChangeType) so output is
// deterministic regardless of map iteration order.
func ExtractChanges(old, newBody map[string]any) []types.FieldChange {
	var changes []types.FieldChange

	walk("", old, newBody, &changes)

	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Path != changes[j].Path {
			return changes[i].Path < changes[j].Path
		}

		return changes[i].ChangeType < changes[j].ChangeType
	})

	return changes
}

func walk(prefix string, a, b any, out *[]types.FieldChange) {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			*out = append(*out, types.FieldChange{
				Path:       prefix,
				OldValue:   a,
				NewValue:   b,
				ChangeType: classifyTypeMismatch(a, b),
			})

			return
		}

		walkMap(prefix, av, bv, out)

	case []any:
		bv, ok := b.([]any)
		if !ok {
			*out = append(*out, types.FieldChange{
				Path:       prefix,
				OldValue:   a,
				NewValue:   b,
				ChangeType: classifyTypeMismatch(a, b),
			})

			return
		}

		walkSequence(prefix, av, bv, out)

	default:
		walkScalar(prefix, a, b, out)
	}
}

func walkMap(prefix string, a, b map[string]any, out *[]types.FieldChange) {
	for _, k := range unionKeys(a, b) {
		childPath := path.Join(prefix, path.Segment{Key: k, Index: -1})

		aVal, aOK := a[k]
		bVal, bOK := b[k]

		switch {
		case aOK && !bOK:
			*out = append(*out, types.FieldChange{
				Path:       childPath,
				OldValue:   aVal,
				NewValue:   nil,
				ChangeType: types.ChangeItemRemoved,
			})
		case !aOK && bOK:
			*out = append(*out, types.FieldChange{
				Path:       childPath,
				OldValue:   nil,
				NewValue:   bVal,
				ChangeType: types.ChangeItemAdded,
			})
		default:
			if !SemanticEqual(aVal, bVal) {
				walk(childPath, aVal, bVal, out)
			}
		}
	}
}

func walkSequence(prefix string, a, b []any, out *[]types.FieldChange) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		childPath := path.Join(prefix, path.Segment{Index: i})

		switch {
		case i >= len(b):
			*out = append(*out, types.FieldChange{
				Path:       childPath,
				OldValue:   a[i],
				NewValue:   nil,
				ChangeType: types.ChangeItemRemoved,
			})
		case i >= len(a):
			*out = append(*out, types.FieldChange{
				Path:       childPath,
				OldValue:   nil,
				NewValue:   b[i],
				ChangeType: types.ChangeItemAdded,
			})
		default:
			if !SemanticEqual(a[i], b[i]) {
				walk(childPath, a[i], b[i], out)
			}
		}
	}
}

func walkScalar(prefix string, a, b any, out *[]types.FieldChange) {
	if SemanticEqual(a, b) {
		return
	}

	*out = append(*out, types.FieldChange{
		Path:       prefix,
		OldValue:   a,
		NewValue:   b,
		ChangeType: classifyTypeMismatch(a, b),
	})
}

// classifyTypeMismatch distinguishes a type_changed FieldChange (the kind of
// Go value differs, e.g. a mapping replaced by a scalar) from a plain
// value_changed one where both sides are the same Go kind.
func classifyTypeMismatch(a, b any) types.ChangeType {
	if fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b) {
		return types.ChangeValueChanged
	}

	return types.ChangeTypeChanged
}
