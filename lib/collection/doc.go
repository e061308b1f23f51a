// Package collection implements the guarded shared collection: an in-memory
// cache of person records over a backing store, reachable only through a
// single mutex.
//
// Every operation reloads the cache from the store before acting
// (load-then-act), which guarantees that a command never observes state older
// than the last committed write of any connection, at the cost of one store
// round trip per command. Mutations write the store first and refresh the
// cache only after the store confirmed the write, so cache and store cannot
// diverge.
package collection
