// Package chartclient wraps the two package-manager subprocess contracts the
// core pipeline depends on: fetching the live release manifest and rendering
// a dry-run upgrade. Both are OUT OF SCOPE collaborators per spec.md §1; this
// package is the thin shell spec.md's design notes ask for, built on the
// Runner capability.
package chartclient

import (
	"context"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/internal/runnerclient"
)

// UpgradeRequest carries the flags needed to render a proposed upgrade.
type UpgradeRequest struct {
	Release      string
	Chart        string
	Namespace    string
	ValuesFiles  []string
	SetValues    []string
	Version      string
	Kubeconfig   string
	KubeContext  string
}

// Client is the package-manager contract consumed by the orchestrator.
type Client interface {
	// GetManifest fetches the currently-installed release's rendered manifest.
	GetManifest(ctx context.Context, release, namespace, kubeconfig, kubeContext string) (string, error)

	// DryRunUpgrade renders what the release would look like after upgrading.
	DryRunUpgrade(ctx context.Context, req UpgradeRequest) (string, error)
}

// DefaultClient shells out to the package manager binary via a Runner.
type DefaultClient struct {
	run    runnerclient.Runner
	binary string
	logger logging.Logger
}

// NewClient creates a DefaultClient that invokes `binary` (e.g. "helm")
// through run.
func NewClient(run runnerclient.Runner, binary string, logger logging.Logger) Client {
	return &DefaultClient{run: run, binary: binary, logger: logger}
}

// GetManifest fetches the live release's manifest via `get manifest`.
func (c *DefaultClient) GetManifest(ctx context.Context, release, namespace, kubeconfig, kubeContext string) (string, error) {
	c.logger.Debug("Fetching live manifest", "release", release, "namespace", namespace)

	args := []string{"get", "manifest", release}
	args = appendNamespaced(args, namespace, kubeconfig, kubeContext)

	out, err := c.run.Run(ctx, c.binary, args...)
	if err != nil {
		return "", errors.Wrapf(err, "cannot get manifest for release %q", release)
	}

	return string(out), nil
}

// DryRunUpgrade renders the proposed upgrade via `upgrade --dry-run`.
func (c *DefaultClient) DryRunUpgrade(ctx context.Context, req UpgradeRequest) (string, error) {
	c.logger.Debug("Rendering dry-run upgrade", "release", req.Release, "chart", req.Chart)

	args := []string{"upgrade", req.Release, req.Chart, "--dry-run"}
	for _, v := range req.ValuesFiles {
		args = append(args, "--values", v)
	}

	for _, s := range req.SetValues {
		args = append(args, "--set", s)
	}

	if req.Version != "" {
		args = append(args, "--version", req.Version)
	}

	args = appendNamespaced(args, req.Namespace, req.Kubeconfig, req.KubeContext)

	out, err := c.run.Run(ctx, c.binary, args...)
	if err != nil {
		return "", errors.Wrapf(err, "cannot render dry-run upgrade for release %q chart %q", req.Release, req.Chart)
	}

	return string(out), nil
}

func appendNamespaced(args []string, namespace, kubeconfig, kubeContext string) []string {
	if namespace != "" {
		args = append(args, "--namespace", namespace)
	}

	if kubeconfig != "" {
		args = append(args, "--kubeconfig", kubeconfig)
	}

	if kubeContext != "" {
		args = append(args, "--kube-context", kubeContext)
	}

	return args
}
