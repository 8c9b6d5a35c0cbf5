// Package logger provides structured logging for finkit components using
// zerolog.
//
// It supports JSON and console output formats, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	log:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("dispatch")
//	log.Info("provider selected", logger.Fields("provider", "fmp"))
package logger
