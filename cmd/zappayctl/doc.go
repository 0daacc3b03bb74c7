// Command zappayctl operates the ZapPay backend's database connection and
// status server.
//
// # Usage
//
//	# Check that the database accepts connections
//	zappayctl db ping
//
//	# Create or alter tables to match the models
//	zappayctl db sync
//
//	# Block until the database is reachable
//	zappayctl wait --retries 30
//
//	# Show the resolved configuration
//	zappayctl configuration show -o yaml
//
//	# Run the status server
//	zappayctl server
//
// # Environment Variables
//
//   - DB_URL: PostgreSQL connection string (preferred)
//   - DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD: Discrete parameters
//   - APP_ENV: development or production (NODE_ENV is read when unset)
//   - LOG_LEVEL: Log level override (debug, info, warn, error)
//   - PORT, BIND_ADDRESS: Status server listen address
package main
