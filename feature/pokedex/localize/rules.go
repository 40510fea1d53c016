package localize

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

const speciesPlaceholder = "{species}"

const (
	ScopeName = "name"
	ScopeAny  = "any"
)

// Rule is one entry of the form name table.
type Rule struct {
	Name     string   `yaml:"name"`
	Contains []string `yaml:"contains"`
	EndsWith string   `yaml:"ends_with,omitempty"`
	Scope    string   `yaml:"scope,omitempty"`
	Display  string   `yaml:"display"`
}

// RuleTable is the YAML document holding the rules in priority order.
type RuleTable struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules decodes and validates a rule table.
func ParseRules(data []byte) (*RuleTable, error) {
	var t RuleTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse localize rules: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadRules reads a rule table from path, or the built-in table when path is empty.
func LoadRules(path string) (*RuleTable, error) {
	if path == "" {
		return ParseRules(defaultRules)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localize rules: %w", err)
	}
	return ParseRules(data)
}

// Validate normalizes matchers to lower case and rejects incomplete rules.
func (t *RuleTable) Validate() error {
	if len(t.Rules) == 0 {
		return fmt.Errorf("no localize rules specified")
	}
	for i := range t.Rules {
		r := &t.Rules[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("rule-%d", i+1)
		}
		if len(r.Contains) == 0 && r.EndsWith == "" {
			return fmt.Errorf("rule %s: needs contains or ends_with", r.Name)
		}
		if r.Display == "" {
			return fmt.Errorf("rule %s: display is empty", r.Name)
		}
		switch r.Scope {
		case "":
			r.Scope = ScopeName
		case ScopeName, ScopeAny:
		default:
			return fmt.Errorf("rule %s: unknown scope %q", r.Name, r.Scope)
		}
		for j, c := range r.Contains {
			r.Contains[j] = strings.ToLower(c)
		}
		r.EndsWith = strings.ToLower(r.EndsWith)
	}
	return nil
}

func (r Rule) matches(name, form string) bool {
	if r.EndsWith != "" && !strings.HasSuffix(name, r.EndsWith) {
		return false
	}
	for _, c := range r.Contains {
		if strings.Contains(name, c) {
			continue
		}
		if r.Scope == ScopeAny && form != "" && strings.Contains(form, c) {
			continue
		}
		return false
	}
	return true
}

func (r Rule) render(species string) string {
	return strings.ReplaceAll(r.Display, speciesPlaceholder, species)
}
