// Package store defines the backing-store abstraction for the shared person
// collection, along with a unified error reporting mechanism.
//
// The package focuses on:
//   - A single interface (IStore) covering record CRUD, owner-scoped loads
//     and the user credential table
//   - A structured error system using typed return codes so that callers can
//     distinguish constraint violations from infrastructure failures
//
// Implementations:
//
//	The package includes two implementations of the IStore interface:
//
//	- Memory Store (memstore): A process-local implementation holding all
//	  records in a mutex-guarded map. It is used by the test suite and by
//	  servers started with `--store memory`, where persistence across
//	  restarts is not required.
//	  Available in the "github.com/trybenon/peopled/lib/store/memstore" package.
//
//	- SQL Store (sqlstore): A SQLite-backed implementation using
//	  mattn/go-sqlite3. Records and user credentials live in the people and
//	  users tables; every write is committed before it is acknowledged, so a
//	  reload after a crash observes all acknowledged mutations.
//	  Available in the "github.com/trybenon/peopled/lib/store/sqlstore" package.
//
// The collection.Manager treats whichever implementation it is given as the
// source of truth: it reloads from the store before acting and only updates
// its in-memory cache after the store confirmed a write.
package store
