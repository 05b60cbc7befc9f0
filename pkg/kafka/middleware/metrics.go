package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"storefront/pkg/kafka"
	"storefront/pkg/logger"
)

// Metrics counts processed messages for one consumer or producer.
type Metrics struct {
	succeeded     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64
}

type MetricsSnapshot struct {
	Succeeded   int64
	Failed      int64
	AvgDuration time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) observe(start time.Time, err error) {
	m.durationTotal.Add(int64(time.Since(start)))
	if err != nil {
		m.failed.Add(1)
		return
	}
	m.succeeded.Add(1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Succeeded: m.succeeded.Load(),
		Failed:    m.failed.Load(),
	}
	if total := s.Succeeded + s.Failed; total > 0 {
		s.AvgDuration = time.Duration(m.durationTotal.Load() / total)
	}
	return s
}

func (m *Metrics) Log(log *logger.Logger, msg string) {
	s := m.Snapshot()
	log.Info(msg,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"avg_duration", s.AvgDuration,
	)
}

func MetricsConsumerMiddleware(m *Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.observe(start, err)
		return err
	}
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.observe(start, err)
		return err
	}
}
