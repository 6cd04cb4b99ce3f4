package matroska

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// diagnostics is the side channel every component reports through: a zap
// logger for human-facing tracing of parser decisions (which SeekHead entry
// was followed, why a tail scan ran, which element got hard-skipped), and a
// multierr-accumulated list of recoverable conditions surfaced back to the
// caller through Document.Warnings(). Nothing here ever changes what gets
// attached to the tree -- it only observes.
type diagnostics struct {
	logger   *zap.Logger
	warnings error
}

func newDiagnostics(logger *zap.Logger) *diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &diagnostics{logger: logger}
}

// warn records a recoverable condition both as a structured log line and as
// an accumulated warning (InvalidVINT, UnexpectedFloatSize,
// UnexpectedDateSize, and friends) so the caller can inspect every one
// afterward without the parse itself aborting.
func (d *diagnostics) warn(kind ErrorKind, path string, err error) {
	pe := newParseError(kind, path, err)
	d.warnings = multierr.Append(d.warnings, pe)
	d.logger.Warn(kind.String(), zap.String("path", path), zap.Error(err))
}

func (d *diagnostics) info(msg string, fields ...zap.Field) {
	d.logger.Info(msg, fields...)
}

func (d *diagnostics) debug(msg string, fields ...zap.Field) {
	d.logger.Debug(msg, fields...)
}

// Warnings returns every recoverable condition collected during the parse,
// combined with multierr so callers can either inspect the whole batch or
// errors.As a single kind out of it.
func (d *diagnostics) Warnings() error {
	return d.warnings
}
