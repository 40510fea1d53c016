// Package middleware groups the fiber middleware shared by every feature.
//
//   - auth: rejects requests without the configured X-API-Key. Path prefixes
//     such as /swagger can be exempted.
//   - rayid: tags each request with an X-Ray-ID (kept from the caller when
//     present) so log lines from logger.WithRayID can be correlated.
//
// Register rayid before the request logger and auth after it, so rejected
// requests are still logged with their ray id.
package middleware
