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

// Package main implements the chartdiff CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"

	"github.com/chartdiff/chartdiff/cmd/chartdiff/version"
)

type verboseFlag bool

func (v verboseFlag) BeforeApply(ctx *kong.Context) error { //nolint:unparam // BeforeApply requires this signature.
	logger := logging.NewLogrLogger(zap.New(zap.UseDevMode(bool(v))))
	ctx.BindTo(logger, (*logging.Logger)(nil))

	return nil
}

// cli is the top-level chartdiff command.
type cli struct {
	Diff    DiffCmd     `cmd:"" default:"1" help:"Preview the semantic effect of a package upgrade on a running cluster."`
	Version version.Cmd `cmd:""              help:"Print the client and server version information for the current context."`

	Verbose verboseFlag `help:"Print verbose logging statements." name:"verbose"`
}

// ExitCode tracks the exit code to return after command execution; the diff
// command sets it based on the pipeline's result (spec.md §6).
type ExitCode struct {
	Code int
}

func main() {
	logger := logging.NewNopLogger()
	exitCode := &ExitCode{Code: 0}

	ctx := kong.Parse(&cli{},
		kong.Name("chartdiff"),
		kong.Description("Previews the semantic effect of a package upgrade on a cluster-configuration store."),
		kong.BindTo(logger, (*logging.Logger)(nil)),
		kong.Bind(exitCode),
		kong.ConfigureHelp(kong.HelpOptions{
			FlagsLast:      true,
			Compact:        true,
			WrapUpperBound: 80,
		}),
		kong.UsageOnError())

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if exitCode.Code == 0 {
			exitCode.Code = 1
		}
	}

	os.Exit(exitCode.Code)
}
