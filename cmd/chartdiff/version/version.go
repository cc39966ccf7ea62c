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

// Package version implements the `chartdiff version` subcommand.
package version

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/internal/runnerclient"
	"github.com/chartdiff/chartdiff/internal/versioninfo"
)

// Cmd prints the chartdiff client version and, unless Client is set, the
// Kubernetes API server version for the current context.
type Cmd struct {
	Client bool `help:"Only print the client version, skipping the cluster round-trip." name:"client"`
}

// Run implements the version subcommand. The client version always prints
// first; unless --client is set, the server version is then fetched with
// `kubectl version -o json`, and if that round-trip fails (no cluster
// configured, no network) Run returns the error after the client line has
// already been written.
func (c *Cmd) Run(ctx *kong.Context) error {
	v := versioninfo.New()

	fmt.Fprintf(ctx.Stdout, "Client Version: %s\n", v.GetVersionString())

	if c.Client {
		return nil
	}

	serverVersion, err := fetchServerVersion(context.Background())
	if err != nil {
		return errors.Wrap(err, "cannot fetch server version")
	}

	fmt.Fprintf(ctx.Stdout, "Server Version: %s\n", serverVersion)

	return nil
}

// kubectlVersion models the subset of `kubectl version -o json` this
// command reads.
type kubectlVersion struct {
	ServerVersion struct {
		GitVersion string `json:"gitVersion"`
	} `json:"serverVersion"`
}

func fetchServerVersion(ctx context.Context) (string, error) {
	runner := runnerclient.NewExecRunner(logging.NewNopLogger())

	out, err := runner.Run(ctx, "kubectl", "version", "-o", "json")
	if err != nil {
		return "", err
	}

	var kv kubectlVersion
	if err := json.Unmarshal(out, &kv); err != nil {
		return "", errors.Wrap(err, "cannot parse kubectl version output")
	}

	if kv.ServerVersion.GitVersion == "" {
		return "", errors.New("no server version reported")
	}

	return kv.ServerVersion.GitVersion, nil
}
