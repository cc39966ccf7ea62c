package diffengine

import (
	"testing"

	"github.com/chartdiff/chartdiff/internal/types"
)

func TestExtractChangesValueChanged(t *testing.T) {
	old := map[string]any{"spec": map[string]any{"image": "nginx:1.25"}}
	newBody := map[string]any{"spec": map[string]any{"image": "nginx:1.26"}}

	changes := ExtractChanges(old, newBody)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %+v", len(changes), changes)
	}

	if changes[0].Path != "spec.image" || changes[0].ChangeType != types.ChangeValueChanged {
		t.Errorf("unexpected change: %+v", changes[0])
	}
}

func TestExtractChangesItemAddedRemoved(t *testing.T) {
	old := map[string]any{"labels": map[string]any{"a": "1"}}
	newBody := map[string]any{"labels": map[string]any{"b": "2"}}

	changes := ExtractChanges(old, newBody)

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}

	byType := map[types.ChangeType]types.FieldChange{}
	for _, c := range changes {
		byType[c.ChangeType] = c
	}

	if byType[types.ChangeItemRemoved].Path != "labels.a" {
		t.Errorf("expected labels.a removed, got %+v", changes)
	}

	if byType[types.ChangeItemAdded].Path != "labels.b" {
		t.Errorf("expected labels.b added, got %+v", changes)
	}
}

func TestExtractChangesTypeChanged(t *testing.T) {
	old := map[string]any{"data": "plain"}
	newBody := map[string]any{"data": map[string]any{"nested": "value"}}

	changes := ExtractChanges(old, newBody)

	if len(changes) != 1 || changes[0].ChangeType != types.ChangeTypeChanged {
		t.Fatalf("expected a single type_changed entry, got %+v", changes)
	}
}

func TestExtractChangesSequenceItemAdded(t *testing.T) {
	old := map[string]any{"ports": []any{float64(80)}}
	newBody := map[string]any{"ports": []any{float64(80), float64(443)}}

	changes := ExtractChanges(old, newBody)

	if len(changes) != 1 || changes[0].Path != "ports[1]" || changes[0].ChangeType != types.ChangeItemAdded {
		t.Fatalf("expected ports[1] item_added, got %+v", changes)
	}
}

func TestExtractChangesDeterministicOrder(t *testing.T) {
	old := map[string]any{"b": "1", "a": "1", "c": "1"}
	newBody := map[string]any{"b": "2", "a": "2", "c": "2"}

	first := ExtractChanges(old, newBody)
	second := ExtractChanges(old, newBody)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 changes on both runs")
	}

	for i := range first {
		if first[i].Path != second[i].Path {
			t.Fatalf("expected deterministic path ordering, got %+v vs %+v", first, second)
		}
	}

	if first[0].Path != "a" || first[1].Path != "b" || first[2].Path != "c" {
		t.Errorf("expected lexicographic path order, got %+v", first)
	}
}

func TestExtractChangesNoopWhenSemanticallyEqual(t *testing.T) {
	old := map[string]any{"replicas": "3"}
	newBody := map[string]any{"replicas": float64(3)}

	changes := ExtractChanges(old, newBody)
	if len(changes) != 0 {
		t.Errorf("expected no changes for semantically equal values, got %+v", changes)
	}
}
