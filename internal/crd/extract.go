// Package crd implements the schema-resource pipeline (spec.md §4.5): CRD
// extraction, pairing, graduated risk classification, new-CRD detection,
// ownership-conflict detection, stored-version safety, live-instance schema
// validation, and policy evaluation.
package crd

import (
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"

	"github.com/chartdiff/chartdiff/internal/diffengine"
	"github.com/chartdiff/chartdiff/internal/types"
)

const kindCRD = "CustomResourceDefinition"

// Extract pulls CustomResourceDefinition resources out of a parsed resource
// set (the rendered upgrade manifest) and merges in any CRDs found under
// chartCrdsDir (a chart's conventional crds/ folder), keyed by name. On
// conflict, the rendered manifest's copy wins (spec.md §4.5.1). IO/parse
// errors on an individual file are appended to warnings and that file is
// skipped; they never fail the whole extraction.
func Extract(rendered []types.Resource, chartCrdsDir string, warnings *[]string) ([]types.Resource, error) {
	byName := make(map[string]types.Resource)

	var order []string

	for _, r := range rendered {
		if r.Kind != kindCRD {
			continue
		}

		name := r.Name
		if _, exists := byName[name]; !exists {
			order = append(order, name)
		}

		byName[name] = r
	}

	dirCrds, err := extractFromDir(chartCrdsDir, warnings)
	if err != nil {
		return nil, err
	}

	for _, r := range dirCrds {
		name := r.Name

		existing, exists := byName[name]
		if !exists {
			order = append(order, name)
			byName[name] = r

			continue
		}

		// Rendered-manifest copy takes precedence; merge in anything the
		// directory copy has that the rendered copy lacks rather than
		// discarding it outright. The merge writes into a deep copy so the
		// rendered resource's own body is left untouched.
		merged := existing
		merged.Body = diffengine.StripNoise(existing.Body, nil)

		if err := mergo.Merge(&merged.Body, r.Body); err != nil {
			*warnings = append(*warnings, "cannot merge CRD "+name+" from crds/ directory: "+err.Error())
			continue
		}

		byName[name] = merged
	}

	out := make([]types.Resource, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}

	return out, nil
}

func extractFromDir(dir string, warnings *[]string) ([]types.Resource, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "cannot read CRD directory %q", dir)
	}

	var out []types.Resource

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		full := filepath.Join(dir, name)

		resources, err := parseCrdFile(full)
		if err != nil {
			*warnings = append(*warnings, "cannot parse "+full+": "+err.Error())
			continue
		}

		out = append(out, resources...)
	}

	return out, nil
}

func parseCrdFile(path string) ([]types.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	docs, err := decodeYAMLStreamAsJSON(string(data))
	if err != nil {
		return nil, err
	}

	var out []types.Resource

	for _, m := range docs {
		kind, _ := m["kind"].(string)
		if kind != kindCRD {
			continue
		}

		meta, _ := m["metadata"].(map[string]any)

		name, _ := meta["name"].(string)
		if name == "" {
			continue
		}

		apiVersion, _ := m["apiVersion"].(string)

		out = append(out, types.Resource{
			APIVersion: apiVersion,
			Kind:       kind,
			Name:       name,
			Body:       m,
		})
	}

	return out, nil
}
