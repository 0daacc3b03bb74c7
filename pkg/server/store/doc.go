// Package store defines the storage interfaces used by the HTTP endpoints,
// keeping handlers independent of the database implementation.
//
// # Available Stores
//
//   - HealthStore: Database connectivity checks
package store
