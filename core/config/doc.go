// Package config provides configuration management for the team builder backend.
//
// Values come from environment variables and an optional .env file. Every
// setting is declared once on a partial Config struct owned by the package that
// consumes it, with its default in a `default` struct tag.
//
// # Configuration Structure
//
//   - Server: HTTP port and admin API key
//   - Log: logging level and format
//   - Database: relational store driver and connection
//   - Redis: cache and lock backend
//   - Storage: S3/MinIO credentials, used when checkpoints live in a bucket
//   - Progress: checkpoint backend (file or object)
//   - PokeAPI: remote source URL, rate limit and retries
//   - Sync: batch size, checkpoint interval, lock TTLs and schedule
//   - Localize: optional override of the localizer rule table
//   - Query: cache lifetimes of the team-builder reads
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Interval)
package config
