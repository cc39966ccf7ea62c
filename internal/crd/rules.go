package crd

import (
	"regexp"
	"strings"

	"github.com/chartdiff/chartdiff/internal/types"
)

// Rule is one entry of the CRD-specific graduated risk table (spec.md
// §4.5.3). First match wins; order is load-bearing.
type Rule struct {
	ID      string
	Level   types.RiskLevel
	Path    *regexp.Regexp
	Matches func(c types.FieldChange) bool
}

// Rules is the ordered rule table from §4.5.3. Rule 5 (version removed)
// is tried before rule 7 (property removed) even though both match
// item_removed changes, since a version-level removal is strictly more
// dangerous and more specific than a generic property removal.
var Rules = []Rule{
	{
		ID:    "crd_metadata_change",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`^metadata\.(annotations|labels)\.`),
	},
	{
		ID:    "crd_printer_columns",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`spec\.versions\[\d+\]\.additionalPrinterColumns`),
	},
	{
		ID:    "crd_version_added",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`^spec\.versions\[\d+\]$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemAdded
		},
	},
	{
		ID:    "crd_optional_property_added",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`properties\.\w+\.properties\.\w+$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemAdded && !strings.Contains(c.Path, ".required")
		},
	},
	{
		ID:    "crd_version_removed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^spec\.versions\[\d+\]$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemRemoved
		},
	},
	{
		ID:    "crd_required_field_added",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`schema\..*\.required$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemAdded
		},
	},
	{
		ID:    "crd_property_removed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`properties\.\w+$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemRemoved
		},
	},
	{
		ID:    "crd_type_changed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`properties\.\w+\.type$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_scope_changed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^spec\.scope$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_conversion_strategy_changed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`^spec\.conversion\.strategy$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_default_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`properties\.\w+\.default$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_pattern_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`properties\.\w+\.pattern$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_range_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`properties\.\w+\.(minimum|maximum)$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_enum_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`properties\.\w+\.enum`),
	},
	{
		ID:    "crd_webhook_changed",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`^spec\.conversion\.webhook\.`),
	},
	{
		ID:    "crd_required_field_removed",
		Level: types.RiskSafe,
		Path:  regexp.MustCompile(`\.required$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeItemRemoved
		},
	},
	{
		ID:    "crd_required_changed",
		Level: types.RiskDanger,
		Path:  regexp.MustCompile(`\.required$`),
		Matches: func(c types.FieldChange) bool {
			return c.ChangeType == types.ChangeValueChanged
		},
	},
	{
		ID:    "crd_unknown_change",
		Level: types.RiskWarning,
		Path:  regexp.MustCompile(`.*`),
	},
}
