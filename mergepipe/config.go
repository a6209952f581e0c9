package mergepipe

import "log/slog"

// Config configures the merge pipeline.
type Config struct {
	// MaxFileSize is the maximum size of a single input (default: 100 MB).
	// Oversized inputs are recorded as per-file errors, not fatal.
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
