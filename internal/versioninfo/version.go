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

// Package versioninfo reports the build-time version of the chartdiff
// binary, set via -ldflags at release time.
package versioninfo

import (
	"github.com/Masterminds/semver"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
)

// version is stamped at build time, e.g. -X .../versioninfo.version=v1.2.3.
// It is empty in development builds.
var version string

// Versioner reports and compares the binary's own version.
type Versioner struct {
	version string
}

// New returns a Versioner bound to the build-time version.
func New() *Versioner {
	return &Versioner{version: version}
}

// GetVersionString returns the raw version string, e.g. "v1.2.3" or "" in a
// development build.
func (v *Versioner) GetVersionString() string {
	return v.version
}

// GetSemVer parses the version as a semantic version, stripping a leading
// "v" if present.
func (v *Versioner) GetSemVer() (*semver.Version, error) {
	sv, err := semver.NewVersion(v.version)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q as a semantic version", v.version)
	}

	return sv, nil
}

// InConstraints reports whether the version satisfies constraint, e.g.
// "^1.0.0" or ">=1.0.0, <2.0.0".
func (v *Versioner) InConstraints(constraint string) (bool, error) {
	sv, err := v.GetSemVer()
	if err != nil {
		return false, err
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "cannot parse constraint %q", constraint)
	}

	return c.Check(sv), nil
}
