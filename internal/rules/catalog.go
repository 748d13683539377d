package rules

import (
	"fmt"

	"github.com/lucim-tools/lucimaudit/internal/artifact"
)

// Catalog is an ordered, immutable set of rules. Construction validates the
// set; evaluation never has to re-check it.
type Catalog struct {
	rules  []Rule
	byKind map[artifact.Kind][]Rule
}

// NewCatalog builds a catalog from the given rules, preserving order.
// Duplicate rule IDs, unknown artifact kinds, and missing predicates are
// configuration bugs and fail here, before any audit runs.
func NewCatalog(ruleSets ...[]Rule) (*Catalog, error) {
	c := &Catalog{byKind: make(map[artifact.Kind][]Rule)}

	seen := make(map[string]bool)
	for _, set := range ruleSets {
		for _, r := range set {
			if r.ID == "" {
				return nil, fmt.Errorf("rule with empty ID (description: %q)", r.Description)
			}
			if seen[r.ID] {
				return nil, fmt.Errorf("duplicate rule ID: %s", r.ID)
			}
			seen[r.ID] = true

			if err := validKind(r.Kind); err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.ID, err)
			}
			for _, ck := range r.Companions {
				if err := validKind(ck); err != nil {
					return nil, fmt.Errorf("rule %s companion: %w", r.ID, err)
				}
			}
			if r.Severity != SeverityError && r.Severity != SeverityWarning {
				return nil, fmt.Errorf("rule %s: invalid severity: %s", r.ID, r.Severity)
			}
			if r.Check == nil {
				return nil, fmt.Errorf("rule %s: nil predicate", r.ID)
			}

			c.rules = append(c.rules, r)
			c.byKind[r.Kind] = append(c.byKind[r.Kind], r)
		}
	}

	return c, nil
}

func validKind(k artifact.Kind) error {
	switch k {
	case artifact.KindModel, artifact.KindScenario, artifact.KindDiagram:
		return nil
	}
	return fmt.Errorf("unknown artifact kind: %s", k)
}

// RulesFor returns the rules applicable to the given kind in catalog order.
// The returned slice is shared; callers must not mutate it.
func (c *Catalog) RulesFor(kind artifact.Kind) []Rule {
	return c.byKind[kind]
}

// Rules returns every rule in catalog order.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Size returns the total number of rules in the catalog.
func (c *Catalog) Size() int {
	return len(c.rules)
}

// defaultCatalog is built once at package init. A broken default rule set is
// a programmer error, so init panics rather than deferring the failure to
// the first audit.
var defaultCatalog = func() *Catalog {
	c, err := NewCatalog(ModelRules, ScenarioRules, DiagramRules)
	if err != nil {
		panic(fmt.Sprintf("rules: invalid default catalog: %v", err))
	}
	return c
}()

// Default returns the built-in LUCIM rule catalog. It is read-only and safe
// to share across concurrent audits.
func Default() *Catalog {
	return defaultCatalog
}
