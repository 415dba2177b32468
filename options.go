package matfile

import (
	"encoding/binary"
	"log/slog"

	"github.com/logicossoftware/go-matfile/internal/logger"
)

type readConfig struct {
	limits             Limits
	native             binary.ByteOrder
	log                logger.Logger
	continueOnError    bool
	unpaddedCompressed bool
}

func defaultReadConfig() readConfig {
	return readConfig{
		limits: defaultLimits(),
		native: binary.BigEndian,
		log:    logger.Discard(),
	}
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithNativeOrder sets the byte order in which the header's endian
// indicator reads "MI". Files whose indicator reads "IM" are decoded in the
// opposite order. The default is big-endian, which decodes files from any
// writer correctly.
func WithNativeOrder(o binary.ByteOrder) ReadOption {
	return func(c *readConfig) {
		if o != nil {
			c.native = o
		}
	}
}

// WithLogger routes decode diagnostics to l. Nothing is logged by default.
func WithLogger(l *slog.Logger) ReadOption {
	return func(c *readConfig) {
		if l != nil {
			c.log = logger.New(l.Handler())
		}
	}
}

// WithContinueOnError makes the walker record a top-level element that
// fails to decode in File.Errors and move on to the next one. An invalid
// tag or a stream that ends inside an element still stops the walk.
func WithContinueOnError(v bool) ReadOption {
	return func(c *readConfig) { c.continueOnError = v }
}

// WithUnpaddedCompressed advances past top-level compressed elements
// without padding, the layout produced by MATLAB itself.
func WithUnpaddedCompressed(v bool) ReadOption {
	return func(c *readConfig) { c.unpaddedCompressed = v }
}
