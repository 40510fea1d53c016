package cache

// Config holds configuration for the Redis backend shared by the cache and the lock manager.
type Config struct {
	// URL is a redis:// connection string. Empty selects the in-process backend.
	URL string `mapstructure:"url" default:""`
	// Prefix namespaces every key written by this process.
	Prefix string `mapstructure:"prefix" default:"pmtb:"`
	// Disabled turns the cache into a no-op. Locks still work.
	Disabled bool `mapstructure:"disabled" default:"false"`
}
