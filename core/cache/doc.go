// Package cache provides the read-through cache used by the query service.
//
// The Cache interface has three implementations: Redis (go-redis), Memory
// (in-process, TTL aware) and Noop. The cache is advisory: GetOrLoad treats
// every cache failure as a miss and always falls back to the loader, so an
// empty or unreachable cache only costs latency. Connect skips Redis entirely
// when it does not answer at startup.
//
// Keys are built with KeyBuilder, which canonicalises filter values so that
// the same query maps to the same key regardless of ordering or casing:
//
//	cache.NewKey("pokemon_list").Int(50).Int(0).Set("types", []string{"Water", "fire"}).String()
//	// pokemon_list:50:0:types:fire,water
package cache
