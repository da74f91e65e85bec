package canbus

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

const writeTimeout = 50 * time.Millisecond

// Publisher is a dynamo.Observer that transmits every Nth snapshot. The final
// tipped snapshot is always sent.
type Publisher struct {
	ctx    context.Context
	w      FrameWriter
	id     uint32
	every  int
	logger *zap.Logger

	ticks  int
	sent   int
	failed int
	tipped bool
}

func NewPublisher(ctx context.Context, w FrameWriter, id uint32, every int, logger *zap.Logger) *Publisher {
	if every < 1 {
		every = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		ctx:    ctx,
		w:      w,
		id:     id,
		every:  every,
		logger: logger.Named("canbus"),
	}
}

func (p *Publisher) OnStep(s dynamo.Snapshot) {
	p.ticks++
	tipNow := s.Tipped && !p.tipped
	p.tipped = s.Tipped
	if p.ticks%p.every != 0 && !tipNow {
		return
	}

	frame, err := Encode(p.id, s)
	if err != nil {
		p.fail(err)
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, writeTimeout)
	defer cancel()
	if err := p.w.WriteFrame(ctx, frame); err != nil {
		p.fail(err)
		return
	}
	p.sent++
}

// fail logs the first error and then every hundredth to keep a dead bus from
// flooding the log.
func (p *Publisher) fail(err error) {
	p.failed++
	if p.failed == 1 || p.failed%100 == 0 {
		p.logger.Error("state frame not sent", zap.Error(err), zap.Int("failures", p.failed))
	}
}

// Stats returns the number of frames sent and failed.
func (p *Publisher) Stats() (sent, failed int) {
	return p.sent, p.failed
}
