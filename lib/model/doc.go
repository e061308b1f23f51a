// Package model defines the Person record and its nested value types
// (Coordinates, Location, Color). These are the domain objects stored in the
// shared collection and carried inside RPC messages.
//
// All validation rules live here so that both the client (before a request is
// sent) and the server (before a record is persisted) enforce the same
// constraints through a single Validate method.
package model
