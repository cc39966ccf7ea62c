package crd

import (
	"context"

	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/chartdiff/chartdiff/internal/clusterclient"
	"github.com/chartdiff/chartdiff/internal/parser"
	"github.com/chartdiff/chartdiff/internal/types"
)

// Options configures a single Run of the CRD pipeline.
type Options struct {
	ChartCrdsDir   string
	CurrentRelease string
	PolicyMode     types.PolicyMode
	Logger         logging.Logger
}

// Run executes the CRD pipeline in the exact step order the spec mandates
// (§4.5.9): extract (chart + rendered) → discover installed → restrict
// installed to names proposed → pair → diff → per-pair classify, ownership
// check, schema validate (status=changed only), stored-version check →
// detect new CRDs → evaluate policy. If there are no proposed CRDs, returns
// an empty report with policy still evaluated.
func Run(ctx context.Context, rendered []types.Resource, cluster clusterclient.Client, opts Options) types.CrdReport {
	var warnings []string

	proposed, err := Extract(rendered, opts.ChartCrdsDir, &warnings)
	if err != nil {
		warnings = append(warnings, "cannot extract CRDs: "+err.Error())
		proposed = nil
	}

	if len(proposed) == 0 {
		report := types.CrdReport{Warnings: warnings}
		result := EvaluatePolicy(report, opts.PolicyMode)
		report.PolicyResult = &result

		return report
	}

	installedAll := discoverInstalled(ctx, cluster, &warnings, opts.Logger)
	installed := restrictToNames(installedAll, proposed)

	pairs := Pair(installed, proposed)

	report := types.CrdReport{Warnings: warnings}

	for _, p := range pairs {
		report.Crds = append(report.Crds, buildDetail(ctx, p, cluster, opts, &warnings))
	}

	for _, p := range pairs {
		if info, ok := DetectNew(p); ok {
			report.NewCrds = append(report.NewCrds, info)
		}
	}

	report.Warnings = warnings

	result := EvaluatePolicy(report, opts.PolicyMode)
	report.PolicyResult = &result

	return report
}

func buildDetail(ctx context.Context, p types.ResourcePair, cluster clusterclient.Client, opts Options, warnings *[]string) types.CrdChangeDetail {
	detail := types.CrdChangeDetail{
		Name:   p.Key,
		Status: p.Status,
	}

	changes := Diff(p)
	detail.Changes = changes
	detail.RiskAnnotations = Classify(changes)

	if p.Old != nil && p.New != nil {
		if conflict := OwnershipConflict(*p.Old, opts.CurrentRelease); conflict != "" {
			detail.OwnershipConflict = conflict
		}
	}

	if p.Status == types.StatusChanged && p.New != nil {
		detail.SchemaValidationErrors = validateLiveInstances(ctx, *p.New, cluster, warnings)
	}

	if p.Old != nil && p.New != nil {
		detail.StoredVersionWarnings = StoredVersionWarnings(*p.Old, *p.New)
	}

	return detail
}

func discoverInstalled(ctx context.Context, cluster clusterclient.Client, warnings *[]string, logger logging.Logger) []types.Resource {
	if cluster == nil {
		return nil
	}

	out, err := cluster.GetCRDs(ctx)
	if err != nil {
		*warnings = append(*warnings, "cannot discover installed CRDs: "+err.Error())
		return nil
	}

	resources, err := decodeCrdListOrStream(out)
	if err != nil {
		*warnings = append(*warnings, "cannot parse installed CRDs: "+err.Error())
		return nil
	}

	if logger != nil {
		logger.Debug("Discovered installed CRDs", "count", len(resources))
	}

	return resources
}

// decodeCrdListOrStream accepts either a CustomResourceDefinitionList
// wrapper (read .items) or a bare multi-document YAML stream (spec.md
// §4.5.1).
func decodeCrdListOrStream(text string) ([]types.Resource, error) {
	var wrapper struct {
		Items []map[string]any `json:"items"`
	}

	jsonBytes, err := sigsyaml.YAMLToJSON([]byte(text))
	if err == nil {
		if uerr := sigsyaml.Unmarshal(jsonBytes, &wrapper); uerr == nil && len(wrapper.Items) > 0 {
			return itemsToResources(wrapper.Items), nil
		}
	}

	return parser.Parse(text, "")
}

func itemsToResources(items []map[string]any) []types.Resource {
	out := make([]types.Resource, 0, len(items))

	for _, m := range items {
		apiVersion, _ := m["apiVersion"].(string)
		kind, _ := m["kind"].(string)
		meta, _ := m["metadata"].(map[string]any)
		name, _ := meta["name"].(string)

		if name == "" {
			continue
		}

		out = append(out, types.Resource{APIVersion: apiVersion, Kind: kind, Name: name, Body: m})
	}

	return out
}

// restrictToNames narrows installed down to the names present in proposed
// (spec.md §4.5.9): CRDs installed but no longer part of the chart at all
// are out of scope for this diff.
func restrictToNames(installed, proposed []types.Resource) []types.Resource {
	names := make(map[string]bool, len(proposed))
	for _, p := range proposed {
		names[p.Name] = true
	}

	out := make([]types.Resource, 0, len(installed))

	for _, r := range installed {
		if names[r.Name] {
			out = append(out, r)
		}
	}

	return out
}

func validateLiveInstances(ctx context.Context, proposed types.Resource, cluster clusterclient.Client, warnings *[]string) []string {
	storageSchema, plural, group, ok := storageVersionSchema(proposed)
	if !ok || cluster == nil {
		return nil
	}

	out, err := cluster.GetCustomResources(ctx, plural, group)
	if err != nil {
		*warnings = append(*warnings, "cannot fetch live instances of "+plural+"."+group+": "+err.Error())
		return nil
	}

	instances, err := decodeInstanceStream(out)
	if err != nil {
		*warnings = append(*warnings, "cannot parse live instances of "+plural+"."+group+": "+err.Error())
		return nil
	}

	var errs []string

	for _, inst := range instances {
		meta, _ := inst["metadata"].(map[string]any)
		ns, _ := meta["namespace"].(string)
		name, _ := meta["name"].(string)

		errs = append(errs, ValidateObject(storageSchema, inst, ns, name)...)
	}

	return errs
}

func decodeInstanceStream(text string) ([]map[string]any, error) {
	var wrapper struct {
		Items []map[string]any `json:"items"`
	}

	jsonBytes, err := sigsyaml.YAMLToJSON([]byte(text))
	if err == nil {
		if uerr := sigsyaml.Unmarshal(jsonBytes, &wrapper); uerr == nil && len(wrapper.Items) > 0 {
			return wrapper.Items, nil
		}
	}

	return decodeYAMLStreamAsJSON(text)
}

func storageVersionSchema(crd types.Resource) (schema map[string]any, plural, group string, ok bool) {
	spec, _ := crd.Body["spec"].(map[string]any)

	group, _ = spec["group"].(string)

	names, _ := spec["names"].(map[string]any)
	plural, _ = names["plural"].(string)

	versions, _ := spec["versions"].([]any)

	for _, v := range versions {
		vm, vok := v.(map[string]any)
		if !vok {
			continue
		}

		storage, _ := vm["storage"].(bool)
		if !storage {
			continue
		}

		vschema, _ := vm["schema"].(map[string]any)
		openAPISchema, _ := vschema["openAPIV3Schema"].(map[string]any)

		if openAPISchema == nil {
			return nil, plural, group, false
		}

		return openAPISchema, plural, group, true
	}

	return nil, plural, group, false
}
