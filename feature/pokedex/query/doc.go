// Package query serves the read side of the reference data.
//
// Every list and lookup goes through the read-through cache first. Keys are
// built from the canonical form of the filter, so callers passing types as
// "Water,fire" and "fire,water" share one entry. The cache is advisory: a
// backend failure only costs a database round-trip.
//
// Reads never wait on a running sync. They see whatever is committed, and a
// sync finishing calls Invalidate followed by Prewarm to replace stale lists.
package query
