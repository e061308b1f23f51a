// Package memstore provides an in-memory, non-persistent implementation of
// the store.IStore interface. It mirrors the behavior of the SQL-backed store
// (id assignment, owner scoping) without touching disk, which makes it the
// store of choice for tests and for ephemeral servers.
package memstore
