package localize

import (
	"strings"
)

// Localizer turns English form names into Chinese display names.
type Localizer struct {
	rules []Rule
}

// New builds a localizer over a validated table.
func New(t *RuleTable) *Localizer {
	return &Localizer{rules: t.Rules}
}

// Load builds a localizer from the configured table.
func Load(cfg Config) (*Localizer, error) {
	t, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// Default builds a localizer from the built-in table.
func Default() *Localizer {
	t, err := ParseRules(defaultRules)
	if err != nil {
		panic(err)
	}
	return New(t)
}

// LocalizeFormName returns the display name for a form of a species whose
// localized name is speciesDisplay.
func (l *Localizer) LocalizeFormName(englishName, formSuffix, speciesDisplay string) string {
	return l.localize(englishName, formSuffix, "", speciesDisplay)
}

// LocalizePokemon is LocalizeFormName for a pokemon whose species English name
// is known, so the species part can be told apart from the form suffix.
// A pokemon named exactly like its species is shown as the species, even when
// its form has a name of its own.
func (l *Localizer) LocalizePokemon(englishName, formSuffix, speciesEnglish, speciesDisplay string) string {
	if strings.EqualFold(englishName, speciesEnglish) {
		return speciesDisplay
	}
	return l.localize(englishName, formSuffix, speciesEnglish, speciesDisplay)
}

// Rule returns the name of the first matching rule, or "".
func (l *Localizer) Rule(englishName, formSuffix string) string {
	n, f := strings.ToLower(englishName), strings.ToLower(formSuffix)
	for _, r := range l.rules {
		if r.matches(n, f) {
			return r.Name
		}
	}
	return ""
}

func (l *Localizer) localize(englishName, formSuffix, speciesEnglish, speciesDisplay string) string {
	n, f := strings.ToLower(englishName), strings.ToLower(formSuffix)
	for _, r := range l.rules {
		if r.matches(n, f) {
			return r.render(speciesDisplay)
		}
	}

	suffix := suffixSegments(n, strings.ToLower(speciesEnglish))
	if len(suffix) == 0 {
		return speciesDisplay
	}
	return speciesDisplay + "-" + strings.Join(suffix, "-")
}

func suffixSegments(name, species string) []string {
	var rest string
	switch {
	case species != "" && strings.HasPrefix(name, species+"-"):
		rest = name[len(species)+1:]
	default:
		_, after, found := strings.Cut(name, "-")
		if !found {
			return nil
		}
		rest = after
	}

	var out []string
	for _, s := range strings.Split(rest, "-") {
		if s == "" {
			continue
		}
		out = append(out, strings.ToUpper(s[:1])+s[1:])
	}
	return out
}
