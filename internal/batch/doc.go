// Package batch runs exit-node checks for many source addresses
// concurrently while keeping results in input order. It exists so the
// CLI can process an access-log worth of addresses without serializing
// on DNS round trips.
package batch
