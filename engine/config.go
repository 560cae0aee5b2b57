package engine

import "log/slog"

// Config holds configuration options for the expansion engine
type Config struct {
	// Logger receives corrector anomalies; nil discards them
	Logger *slog.Logger

	// MaxOccurrences caps expansion of rules without a count/until
	// terminator (and bounds terminated rules as well)
	MaxOccurrences int

	// Day-shift search windows for the weekday corrector, in days
	CorrectionWindowDays     int
	WideCorrectionWindowDays int
}

// DefaultConfig provides sensible defaults for production use
var DefaultConfig = Config{
	MaxOccurrences:           1000,
	CorrectionWindowDays:     3,
	WideCorrectionWindowDays: 7,
}

// PreviewConfig is tuned for interactive UI previews, where only a short
// window of occurrences is ever shown
var PreviewConfig = Config{
	MaxOccurrences:           100,
	CorrectionWindowDays:     3,
	WideCorrectionWindowDays: 7,
}
