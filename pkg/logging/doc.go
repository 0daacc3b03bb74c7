// Package logging builds the zap logger used across the backend and the
// bridge that routes GORM's SQL logging into it.
package logging
