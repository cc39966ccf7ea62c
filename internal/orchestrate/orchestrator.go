// Package orchestrate wires the parser, pairer, diff engine, risk
// classifier, ownership detector, and CRD pipeline into the single `Run`
// operation the CLI invokes (spec.md §2, §4.5.9's sibling for the
// non-CRD path).
package orchestrate

import (
	"context"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/internal/chartclient"
	"github.com/chartdiff/chartdiff/internal/clusterclient"
	"github.com/chartdiff/chartdiff/internal/crd"
	"github.com/chartdiff/chartdiff/internal/diffengine"
	"github.com/chartdiff/chartdiff/internal/pairer"
	"github.com/chartdiff/chartdiff/internal/parser"
	"github.com/chartdiff/chartdiff/internal/risk"
	"github.com/chartdiff/chartdiff/internal/types"
)

// Request carries everything Run needs to produce a Result.
type Request struct {
	Release     string
	Chart       string
	Namespace   string
	ValuesFiles []string
	SetValues   []string
	Version     string
	ServerSide  bool
	ShowAll     bool
	IgnorePaths []string
	Kubeconfig  string
	KubeContext string
	RiskOnly    bool
	CheckCrds   bool
	CrdPolicy   types.PolicyMode
	ChartCrdDir string
}

// Result is everything the renderers need.
type Result struct {
	Changes   []types.ChangeRecord
	CrdReport *types.CrdReport
}

// Run executes the full pipeline: fetch live manifest and dry-run upgrade
// (FatalExternalFailure call sites per spec.md §7), parse both into
// Resources, optionally refine the proposed side with a per-resource
// server-side dry-run (DegradableExternalFailure, absorbed locally), pair, diff,
// classify risk, detect ownership, and — when requested — run the CRD
// pipeline.
func Run(ctx context.Context, req Request, chart chartclient.Client, cluster clusterclient.Client, log logging.Logger) (Result, error) {
	liveManifest, err := chart.GetManifest(ctx, req.Release, req.Namespace, req.Kubeconfig, req.KubeContext)
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot fetch live manifest")
	}

	proposedManifest, err := chart.DryRunUpgrade(ctx, chartclient.UpgradeRequest{
		Release:     req.Release,
		Chart:       req.Chart,
		Namespace:   req.Namespace,
		ValuesFiles: req.ValuesFiles,
		SetValues:   req.SetValues,
		Version:     req.Version,
		Kubeconfig:  req.Kubeconfig,
		KubeContext: req.KubeContext,
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot render dry-run upgrade")
	}

	oldResources, err := parser.Parse(liveManifest, req.Namespace)
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot parse live manifest")
	}

	newResources, err := parser.Parse(proposedManifest, req.Namespace)
	if err != nil {
		return Result{}, errors.Wrap(err, "cannot parse proposed manifest")
	}

	if req.ServerSide && cluster != nil {
		newResources = refineWithServerSideDryRun(ctx, newResources, cluster, req.Namespace, log)
	}

	pairs := pairer.Pair(oldResources, newResources)

	changes := diffengine.DiffAll(pairs, req.ShowAll, req.IgnorePaths)

	annotateRiskAndOwnership(changes, pairs)

	result := Result{Changes: changes}

	if req.CheckCrds {
		renderedCrds := newResources

		report := crd.Run(ctx, renderedCrds, cluster, crd.Options{
			ChartCrdsDir:   req.ChartCrdDir,
			CurrentRelease: req.Release,
			PolicyMode:     req.CrdPolicy,
			Logger:         log,
		})

		result.CrdReport = &report
	}

	return result, nil
}

// refineWithServerSideDryRun runs a server-side dry-run per resource,
// replacing each proposed resource's body with what the API server would
// actually produce. A per-resource failure degrades to the client-rendered
// body rather than failing the whole run (spec.md §7).
func refineWithServerSideDryRun(ctx context.Context, resources []types.Resource, cluster clusterclient.Client, namespace string, log logging.Logger) []types.Resource {
	out := make([]types.Resource, len(resources))

	for i, r := range resources {
		ns := r.Namespace
		if ns == "" {
			ns = namespace
		}

		rendered, err := cluster.ServerSideDryRun(ctx, r.Raw, ns)
		if err != nil {
			if log != nil {
				log.Debug("server-side dry-run failed, falling back to client-rendered resource", "resource", r.Key(), "error", err.Error())
			}

			out[i] = r

			continue
		}

		refined, perr := parser.Parse(rendered, ns)
		if perr != nil || len(refined) == 0 {
			out[i] = r
			continue
		}

		out[i] = refined[0]
	}

	return out
}

func annotateRiskAndOwnership(changes []types.ChangeRecord, pairs []types.ResourcePair) {
	byKey := make(map[string]types.ResourcePair, len(pairs))
	for _, p := range pairs {
		byKey[p.Key] = p
	}

	for i := range changes {
		changes[i].Risks = risk.Classify(changes[i].Changes, changes[i].Kind, risk.DefaultRules)

		if ann, ok := risk.ClassifyDeletion(changes[i].Status, changes[i].Kind); ok {
			changes[i].Risks = append(changes[i].Risks, ann)
		}

		p, ok := byKey[changes[i].ResourceKey]
		if !ok {
			continue
		}

		ref := p.New
		if ref == nil {
			ref = p.Old
		}

		if ref == nil {
			continue
		}

		labels, annotations := risk.LabelsAndAnnotations(ref.Body)
		info := risk.DetectOwnership(labels, annotations)
		changes[i].Ownership = &info
	}
}
