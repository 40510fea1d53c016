package localize

// Config holds configuration for the form name localizer.
type Config struct {
	// RulesPath points to a YAML rule table replacing the built-in one.
	RulesPath string `mapstructure:"rules_path" default:""`
}
