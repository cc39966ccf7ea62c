// Package clusterclient wraps the cluster-facing subprocess contracts: a
// per-resource server-side dry-run, installed-CRD discovery, and live custom
// resource fetches. All three are DegradableExternalFailure call sites per
// spec.md §7 — failures here are absorbed by the caller, never fatal.
package clusterclient

import (
	"context"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/internal/runnerclient"
)

// Client is the cluster contract consumed by the diff engine and CRD
// pipeline.
type Client interface {
	// ServerSideDryRun asks the API server what applying yamlText would
	// produce, without persisting it.
	ServerSideDryRun(ctx context.Context, yamlText, namespace string) (string, error)

	// GetCRDs fetches all installed CustomResourceDefinitions as YAML.
	GetCRDs(ctx context.Context) (string, error)

	// GetCustomResources fetches all live instances of plural.group across
	// namespaces as YAML.
	GetCustomResources(ctx context.Context, plural, group string) (string, error)
}

// DefaultClient shells out to the cluster CLI (e.g. "kubectl") via a Runner.
type DefaultClient struct {
	run         runnerclient.Runner
	binary      string
	kubeconfig  string
	kubeContext string
	logger      logging.Logger
}

// NewClient creates a DefaultClient that invokes `binary` through run.
func NewClient(run runnerclient.Runner, binary, kubeconfig, kubeContext string, logger logging.Logger) Client {
	return &DefaultClient{run: run, binary: binary, kubeconfig: kubeconfig, kubeContext: kubeContext, logger: logger}
}

func (c *DefaultClient) baseArgs() []string {
	var args []string

	if c.kubeconfig != "" {
		args = append(args, "--kubeconfig", c.kubeconfig)
	}

	if c.kubeContext != "" {
		args = append(args, "--context", c.kubeContext)
	}

	return args
}

// ServerSideDryRun runs `apply --server-side --dry-run=server -f -` against
// the cluster, feeding yamlText on stdin conceptually; the Runner contract
// here models it as a single invocation per resource (spec.md §5: "one call
// per resource").
func (c *DefaultClient) ServerSideDryRun(ctx context.Context, yamlText, namespace string) (string, error) {
	c.logger.Debug("Performing server-side dry-run", "namespace", namespace, "bytes", len(yamlText))

	args := append([]string{"apply", "--server-side", "--dry-run=server", "-o", "yaml"}, c.baseArgs()...)
	if namespace != "" {
		args = append(args, "--namespace", namespace)
	}

	out, err := c.run.Run(ctx, c.binary, args...)
	if err != nil {
		return "", errors.Wrap(err, "cannot perform server-side dry-run")
	}

	return string(out), nil
}

// GetCRDs fetches all installed CRDs. Failures here are always recoverable
// to the caller (spec.md §4.5.1): the caller appends a warning and proceeds
// with an empty installed set.
func (c *DefaultClient) GetCRDs(ctx context.Context) (string, error) {
	c.logger.Debug("Fetching installed CRDs")

	args := append([]string{"get", "crds", "-o", "yaml"}, c.baseArgs()...)

	out, err := c.run.Run(ctx, c.binary, args...)
	if err != nil {
		return "", errors.Wrap(err, "cannot get crds")
	}

	return string(out), nil
}

// GetCustomResources fetches all live instances of plural.group.
func (c *DefaultClient) GetCustomResources(ctx context.Context, plural, group string) (string, error) {
	resource := plural
	if group != "" {
		resource = plural + "." + group
	}

	c.logger.Debug("Fetching live custom resources", "resource", resource)

	args := append([]string{"get", resource, "-A", "-o", "yaml"}, c.baseArgs()...)

	out, err := c.run.Run(ctx, c.binary, args...)
	if err != nil {
		return "", errors.Wrapf(err, "cannot get %s", resource)
	}

	return string(out), nil
}
