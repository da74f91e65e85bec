package observability

import (
	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/physics"
)

// TipLogger reports tip events as WARN entries.
type TipLogger struct {
	logger *zap.Logger
}

func NewTipLogger(logger *zap.Logger) *TipLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TipLogger{logger: logger}
}

func (t *TipLogger) ReportTip(e physics.TipEvent) {
	t.logger.Warn("machine tipped over",
		zap.Float64("elapsed", e.Time),
		zap.Float64("angle_deg", e.AngleDeg()),
	)
}
