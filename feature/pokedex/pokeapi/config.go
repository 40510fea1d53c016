package pokeapi

// Config holds configuration for the remote reference-data source.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://pokeapi.co/api/v2"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryMax is the number of retries for network errors, 429 and 5xx.
	RetryMax int `mapstructure:"retry_max" default:"3"`
	// RequestsPerSecond caps the request rate. Zero disables the limiter.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"20"`
	// PageSize is the listing page size.
	PageSize int `mapstructure:"page_size" default:"100"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"pmteambuilder-sync/1.0"`
}
