package storage

// Config points at the S3-compatible store that keeps sync checkpoints
// when progress.backend is "object".
type Config struct {
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket is created on startup if missing.
	Bucket string `mapstructure:"bucket" default:"pmteambuilder"`
	// Region is only used when creating the bucket.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds client setup and the bucket check.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
