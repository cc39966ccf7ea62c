/*
Copyright 2025 The Crossplane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/internal/chartclient"
	"github.com/chartdiff/chartdiff/internal/clusterclient"
	"github.com/chartdiff/chartdiff/internal/orchestrate"
	"github.com/chartdiff/chartdiff/internal/render"
	"github.com/chartdiff/chartdiff/internal/runnerclient"
	"github.com/chartdiff/chartdiff/internal/types"
)

// DiffCmd is the `diff <release> <chart>` command (spec.md §6).
type DiffCmd struct {
	Release string `arg:"" help:"The installed release name."`
	Chart   string `arg:"" help:"Path to the chart being upgraded to."`

	Namespace   string   `help:"Namespace the release lives in."                                name:"namespace"`
	Values      []string `help:"Values file(s) to apply to the upgrade, may be repeated."        name:"values"`
	Set         []string `help:"Individual 'key=val' value overrides, may be repeated."          name:"set"`
	Version     string   `help:"Chart version to upgrade to."                                    name:"version"`
	ServerSide  bool     `help:"Refine the proposed render with a per-resource server-side dry-run." name:"server-side"`
	ShowAll     bool     `help:"Include unchanged resources in the output."                      name:"show-all"`
	Output      string   `default:"terminal"                                                     enum:"terminal,json" help:"Output format." name:"output"`
	Context     int      `default:"3"                                                            help:"Characters of unchanged text to keep on each side of an inline change (0 keeps all)." name:"context"`
	IgnorePath  []string `help:"Additional dot-paths to ignore, may be repeated."                 name:"ignore-path"`
	Kubeconfig  string   `help:"Path to a kubeconfig file."                                       name:"kubeconfig"`
	KubeContext string   `help:"Kubeconfig context to use."                                       name:"kube-context"`
	NoColor     bool     `help:"Disable colorized terminal output."                               name:"no-color"`
	RiskOnly    bool     `help:"Only show changes carrying a WARNING or DANGER annotation."       name:"risk-only"`
	CheckCrds   bool     `help:"Run the CRD pipeline against schema-defining resources."          name:"check-crds"`
	CrdPolicy   string   `default:"warn"                                                          enum:"ignore,warn,fail" help:"Admission policy for CRD issues." name:"crd-policy"`
}

// Run executes the diff pipeline and renders its result.
func (c *DiffCmd) Run(logger logging.Logger, exitCode *ExitCode) error {
	runner := runnerclient.NewExecRunner(logger)
	chart := chartclient.NewClient(runner, "helm", logger)

	var cluster clusterclient.Client
	if c.ServerSide || c.CheckCrds {
		cluster = clusterclient.NewClient(runner, "kubectl", c.Kubeconfig, c.KubeContext, logger)
	}

	ctx := context.Background()

	req := orchestrate.Request{
		Release:     c.Release,
		Chart:       c.Chart,
		Namespace:   c.Namespace,
		ValuesFiles: c.Values,
		SetValues:   c.Set,
		Version:     c.Version,
		ServerSide:  c.ServerSide,
		ShowAll:     c.ShowAll,
		IgnorePaths: c.IgnorePath,
		Kubeconfig:  c.Kubeconfig,
		KubeContext: c.KubeContext,
		RiskOnly:    c.RiskOnly,
		CheckCrds:   c.CheckCrds,
		CrdPolicy:   types.PolicyMode(c.CrdPolicy),
		ChartCrdDir: filepath.Join(c.Chart, "crds"),
	}

	result, err := orchestrate.Run(ctx, req, chart, cluster, logger)
	if err != nil {
		exitCode.Code = orchestrate.ExitCodeFailure
		return err
	}

	c.render(result)

	exitCode.Code = orchestrate.DetermineExitCode(nil, result)

	return nil
}

func (c *DiffCmd) render(result orchestrate.Result) {
	switch c.Output {
	case "json":
		doc := render.BuildDocument(result.Changes, result.CrdReport, c.RiskOnly)

		data, err := render.MarshalJSON(doc)
		if err != nil {
			return
		}

		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
	default:
		render.RenderTerminal(os.Stdout, result.Changes, result.CrdReport, render.TerminalOptions{
			NoColor:  c.NoColor,
			RiskOnly: c.RiskOnly,
			Context:  c.Context,
		})
	}
}
