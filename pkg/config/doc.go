// Package config resolves the ZapPay database connection configuration.
//
// Resolve is a pure function of environment input. It never fails; absent
// or invalid values fall back to documented defaults.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Dotenv files, via LoadDotEnv (optional, never override the environment)
//
// # Key Configuration Options
//
//   - DB_URL: Connection string, preferred over the discrete variables
//   - DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD: Discrete parameters
//   - APP_ENV: Execution mode ("development", "production"); NODE_ENV is
//     read when APP_ENV is unset
//
// # Transport Security
//
// In production the connection requests TLS without verifying the server
// certificate (sslmode=require), which tolerates the self-signed
// certificates presented by managed database providers. Outside production
// no TLS is requested.
package config
