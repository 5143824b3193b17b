// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of conversion workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// StoreCapacity bounds the number of conversion results kept in memory.
	StoreCapacity int `koanf:"store_capacity"`

	// CoordinateSystem is the default target coordinate system
	// (pff, metric, normalized).
	CoordinateSystem string `koanf:"coordinate_system"`

	// MaxDocumentBytes caps the size of one submitted provider document.
	MaxDocumentBytes int64 `koanf:"max_document_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		WorkerCount:      runtime.NumCPU(),
		QueueSize:        64,
		StoreCapacity:    128,
		CoordinateSystem: "pff",
		MaxDocumentBytes: 32 << 20,
	}
}
