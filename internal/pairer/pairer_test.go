package pairer

import "github.com/chartdiff/chartdiff/internal/types"
import "testing"

func res(kind, name string) types.Resource {
	return types.Resource{APIVersion: "v1", Kind: kind, Name: name}
}

func TestPairClassifiesStatuses(t *testing.T) {
	old := []types.Resource{res("ConfigMap", "a"), res("ConfigMap", "b")}
	newRes := []types.Resource{res("ConfigMap", "b"), res("ConfigMap", "c")}

	pairs := Pair(old, newRes)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}

	if pairs[0].Status != types.StatusRemoved || pairs[0].New != nil {
		t.Errorf("expected a removed, got %+v", pairs[0])
	}

	if pairs[1].Status != types.StatusChanged || pairs[1].Old == nil || pairs[1].New == nil {
		t.Errorf("expected b changed, got %+v", pairs[1])
	}

	if pairs[2].Status != types.StatusAdded || pairs[2].Old != nil {
		t.Errorf("expected c added, got %+v", pairs[2])
	}
}

func TestPairInvariantCoverage(t *testing.T) {
	old := []types.Resource{res("Deployment", "web")}
	newRes := []types.Resource{res("Deployment", "web")}

	pairs := Pair(old, newRes)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly one pair per key union, got %d", len(pairs))
	}
}
