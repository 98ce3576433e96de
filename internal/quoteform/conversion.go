package quoteform

import (
	"context"

	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
)

// Conversion is the ad-platform event fired after a delivered quote.
type Conversion struct {
	SendTo   string
	Value    float64
	Currency string
}

type ConversionTracker interface {
	TrackConversion(ctx context.Context, c Conversion)
}

// LogConversionTracker records conversions in the structured log.
type LogConversionTracker struct {
	logger *logging.Logger
}

func NewLogConversionTracker(logger *logging.Logger) *LogConversionTracker {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogConversionTracker{logger: logger}
}

func (t *LogConversionTracker) TrackConversion(ctx context.Context, c Conversion) {
	t.logger.InfoContext(ctx, "conversion",
		"send_to", c.SendTo,
		"value", c.Value,
		"currency", c.Currency,
	)
}
