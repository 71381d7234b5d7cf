// Package model defines the value objects shared across torlook:
// exit-node lookup outcomes and check results.
//
// Types in this package are plain data with no behavior beyond
// formatting. They are safe to copy and carry no references to
// sockets, resolvers, or other live resources, which keeps the
// database, batch, and report layers decoupled from the lookup code.
package model
