// Package lock provides the per-entity locks that stop two sync runs from
// working on the same stage, species or form at once.
//
// Locks are try-locks with a TTL: a crashed holder never blocks others for
// longer than the TTL. Each holder identifies itself with a random token and
// Release is a compare-and-delete on that token, so a run whose lock expired
// cannot release the lock of the run that took over.
//
// Two implementations exist: Redis (SET NX PX plus a Lua release script) for
// multi-process deployments and Memory for a single process and tests.
package lock
