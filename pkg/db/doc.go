// Package db manages the lifecycle of the ZapPay database connection.
//
// A Manager opens a PostgreSQL connection pool through GORM, binds the
// entity registry to it, optionally synchronizes the schema, and closes it
// again. Callers that only need the default behaviour use Connect and
// Disconnect:
//
//	h, err := db.Connect(ctx, config.OSEnv, db.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer db.Disconnect(h)
//
//	users := model.Users(h.Registry())
//
// # Failures
//
// Open reports every failure as a *ConnectivityError carrying a Reason.
// Certificate and handshake failures get a remediation hint naming the
// DB_CA_CERT, DB_CLIENT_CERT and DB_CLIENT_KEY variables. Schema
// synchronization failures are *SchemaSyncError and pool shutdown failures
// are *ShutdownError. Messages never contain credentials.
//
// # Schema Synchronization
//
// In production InitializeSchema runs GORM's AutoMigrate over the registered
// models on every start, creating missing tables and altering existing ones.
// In every other mode it does nothing.
//
// # Pool
//
// At most 20 connections are open; idle connections are released after 10
// seconds. Handle.Conn waits at most 30 seconds for a free connection.
package db
