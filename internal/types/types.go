// Package types holds the data model shared across the whole pipeline:
// parsed resources, paired resources, field-level changes, per-resource
// change rollups, risk annotations, ownership info, and the CRD report.
// Nothing in this package does I/O; everything here is a plain value type.
package types

import "fmt"

// Resource is a parsed cluster object. Immutable after construction by the
// Parser.
type Resource struct {
	APIVersion string
	Kind       string
	Namespace  string
	Name       string
	Body       map[string]any
	Raw        string
}

// Key is the identity key "<apiVersion>/<kind>/<namespace>/<name>"; the
// namespace segment is empty for cluster-scoped objects.
func (r Resource) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s", r.APIVersion, r.Kind, r.Namespace, r.Name)
}

// PairStatus describes how a ResourcePair's old and new sides relate.
type PairStatus string

const (
	StatusAdded     PairStatus = "added"
	StatusRemoved   PairStatus = "removed"
	StatusChanged   PairStatus = "changed"
	StatusUnchanged PairStatus = "unchanged"
)

// ResourcePair is a matched old/new pair produced by the Pairer.
type ResourcePair struct {
	Key    string
	Old    *Resource
	New    *Resource
	Status PairStatus
}

// ChangeType classifies one FieldChange.
type ChangeType string

const (
	ChangeValueChanged ChangeType = "value_changed"
	ChangeTypeChanged  ChangeType = "type_changed"
	ChangeItemAdded    ChangeType = "item_added"
	ChangeItemRemoved  ChangeType = "item_removed"
)

// FieldChange is one atomic difference inside a ResourcePair.
type FieldChange struct {
	Path       string
	OldValue   any
	NewValue   any
	ChangeType ChangeType
}

// ChangeRecord is the per-resource rollup of a ResourcePair's diff.
type ChangeRecord struct {
	ResourceKey string
	Kind        string
	Name        string
	Namespace   string
	Status      PairStatus
	Changes     []FieldChange
	Risks       []RiskAnnotation
	Ownership   *OwnershipInfo
}

// RiskLevel is a graduated severity for a single annotated change.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "SAFE"
	RiskWarning RiskLevel = "WARNING"
	RiskDanger  RiskLevel = "DANGER"
)

// riskRank orders levels for max() computation: SAFE < WARNING < DANGER.
var riskRank = map[RiskLevel]int{
	RiskSafe:    0,
	RiskWarning: 1,
	RiskDanger:  2,
}

// MaxRiskLevel returns the highest-ranked level among levels, or SAFE if
// levels is empty.
func MaxRiskLevel(levels ...RiskLevel) RiskLevel {
	max := RiskSafe
	for _, l := range levels {
		if riskRank[l] > riskRank[max] {
			max = l
		}
	}

	return max
}

// RiskAnnotation tags one change (or a whole resource) with a graduated
// risk level, a stable rule identifier, and a human message.
type RiskAnnotation struct {
	Level   RiskLevel
	Rule    string
	Message string
	Path    string
}

// OwnerManager identifies the external controller that manages a resource.
type OwnerManager string

const (
	ManagerHelm    OwnerManager = "helm"
	ManagerArgoCD  OwnerManager = "argocd"
	ManagerFlux    OwnerManager = "flux"
	ManagerUnknown OwnerManager = "unknown"
)

// OwnershipInfo is the result of ownership detection on a Resource.
type OwnershipInfo struct {
	Manager OwnerManager
	Release string
	App     string
}

// CrdChangeDetail is the per-CRD rollup produced by the CRD pipeline.
type CrdChangeDetail struct {
	Name                   string
	Status                 PairStatus
	Changes                []FieldChange
	RiskAnnotations        []RiskAnnotation
	StoredVersionWarnings  []string
	SchemaValidationErrors []string
	OwnershipConflict      string
}

// MaxRisk is the highest level across the CRD's risk annotations, SAFE if
// there are none.
func (d CrdChangeDetail) MaxRisk() RiskLevel {
	levels := make([]RiskLevel, 0, len(d.RiskAnnotations))
	for _, a := range d.RiskAnnotations {
		levels = append(levels, a.Level)
	}

	return MaxRiskLevel(levels...)
}

// NewCrdInfo describes a CRD present in the proposed set but absent from
// the installed set.
type NewCrdInfo struct {
	Name     string
	Group    string
	Kind     string
	Versions []string
}

// PolicyMode selects how the CRD pipeline's policy evaluation behaves.
type PolicyMode string

const (
	PolicyIgnore PolicyMode = "ignore"
	PolicyWarn   PolicyMode = "warn"
	PolicyFail   PolicyMode = "fail"
)

// PolicyResult is the outcome of evaluating a PolicyMode against a CrdReport.
type PolicyResult struct {
	Mode     PolicyMode
	Blocked  bool
	Message  string
	ExitCode int
}

// CrdReport is the top-level output of the CRD pipeline.
type CrdReport struct {
	Crds         []CrdChangeDetail
	NewCrds      []NewCrdInfo
	PolicyResult *PolicyResult
	Warnings     []string
}

// HasIssues reports whether any CRD carries a WARNING or DANGER annotation.
func (r CrdReport) HasIssues() bool {
	for _, c := range r.Crds {
		if m := c.MaxRisk(); m == RiskWarning || m == RiskDanger {
			return true
		}
	}

	return false
}

// HasDangers reports whether any CRD's MaxRisk is DANGER.
func (r CrdReport) HasDangers() bool {
	for _, c := range r.Crds {
		if c.MaxRisk() == RiskDanger {
			return true
		}
	}

	return false
}
