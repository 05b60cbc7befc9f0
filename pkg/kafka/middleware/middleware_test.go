package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/pkg/kafka"
	"storefront/pkg/logger"
)

func TestMetricsConsumerMiddleware(t *testing.T) {
	m := NewMetrics()
	mw := MetricsConsumerMiddleware(m)

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	_ = mw(context.Background(), kafka.Message{}, ok)
	_ = mw(context.Background(), kafka.Message{}, ok)
	if err := mw(context.Background(), kafka.Message{}, fail); err == nil {
		t.Error("middleware swallowed the handler error")
	}

	s := m.Snapshot()
	if s.Succeeded != 2 || s.Failed != 1 {
		t.Errorf("Snapshot() = %+v, want 2 succeeded and 1 failed", s)
	}
}

func TestLoggingConsumerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Output: &buf, Service: "test"})
	mw := LoggingConsumerMiddleware(log)

	msg := kafka.Message{Topic: "storefront.banners", Key: "b1", Headers: map[string]string{}}
	_ = mw(context.Background(), msg, func(ctx context.Context, msg kafka.Message) error {
		return errors.New("decode failed")
	})

	out := buf.String()
	if !strings.Contains(out, "Failed to process message") || !strings.Contains(out, "decode failed") {
		t.Errorf("log output = %q", out)
	}
	if !strings.Contains(out, `"topic":"storefront.banners"`) {
		t.Errorf("log output missing topic: %q", out)
	}
}
