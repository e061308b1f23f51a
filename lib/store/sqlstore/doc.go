// Package sqlstore implements store.IStore on top of a SQLite database using
// the mattn/go-sqlite3 driver. The schema consists of a users table (login,
// password hash) and a people table holding the collection records keyed by
// an autoincrement id, so id order equals insertion order.
package sqlstore
