// Package logger provides a structured logging interface for imgfetch.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with
// support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output when attached to a terminal, JSON otherwise
// - Optional log file output alongside the console
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "imgfetch/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File:  "/var/log/imgfetch.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	log := logger.GetLogger()
//	log.Info("download started")
//	log.WithField("url", url).Info("image stored")
//	log.WithError(err).Error("download failed")
package logger
