// Package model defines the ZapPay entities and the registry that gives
// the rest of the backend named access to them.
//
// Entities are thin GORM models. Each is exposed through a Table accessor
// registered in a Registry. Wiring happens in two phases:
//
//  1. Register every accessor (NewDefaultRegistry does this).
//  2. Initialize the registry against a database handle: every accessor is
//     bound, then each association hook runs once, in registration order,
//     with the full registry available.
//
// # Database Schema
//
//   - users: Account holders
//   - groups: Shared-expense groups, owned by a user
//   - transactions: Payments by a user, optionally within a group
//   - budgets: Per-category spending limits
//   - notifications: Messages delivered to users
package model
