// Package pokeapi is the client for the remote Pokémon reference-data API.
//
// The Client wraps hashicorp/go-retryablehttp so transient failures (network
// errors, 429, 5xx) are retried with backoff, and throttles requests with a
// token-bucket limiter from golang.org/x/time/rate. Responses are decoded into
// the typed detail structs in types.go.
//
// Listing endpoints are consumed through Walk, which pages through a resource
// and keeps going when a single page fails.
//
// Localized text helpers in names.go pick the Simplified Chinese and English
// variants out of the names, flavor texts and effect entries of a resource.
package pokeapi
