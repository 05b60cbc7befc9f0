package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront/pkg/logger"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Stats() kafka.ReaderStats { return kafka.ReaderStats{Lag: 7} }

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"})
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "explicit transient", err: NewTransientError("store", errors.New("x")), want: ErrorTypeTransient},
		{name: "explicit permanent", err: NewPermanentError("decode", errors.New("x")), want: ErrorTypePermanent},
		{name: "wrapped", err: errors.Join(errors.New("ctx"), NewTransientError("x", nil)), want: ErrorTypeTransient},
		{name: "pattern", err: errors.New("dial tcp: Connection Refused"), want: ErrorTypeTransient},
		{name: "unknown defaults to permanent", err: errors.New("bad payload"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("x", nil)
	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient error under the limit should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("retry limit reached should not retry")
	}
	if ShouldRetry(NewPermanentError("x", nil), 0, 3) {
		t.Error("permanent error should not retry")
	}
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("b1").
		WithValue(map[string]string{"id": "b1"}).
		WithEventType("banner.ingested").
		WithSource("banner-ingest").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if msg.GetEventID() == "" || msg.Headers[HeaderTimestamp] == "" {
		t.Errorf("Build() headers = %v, want event id and timestamp", msg.Headers)
	}
	if msg.GetEventType() != "banner.ingested" {
		t.Errorf("event type = %q", msg.GetEventType())
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["id"] != "b1" {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}

	if _, err := NewMessage().WithValue(make(chan int)).Build(); err == nil {
		t.Error("Build() should report encoding failures")
	}
	if _, err := NewMessage().Build(); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("Build() error = %v, want ErrEmptyValue", err)
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
}

func runConsumer(t *testing.T, c *Consumer, reader *fakeReader, want int) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		reader.mu.Lock()
		n := len(reader.committed)
		reader.mu.Unlock()
		if n >= want {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
}

func TestConsumer_CommitsAfterProcessing(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "t", Offset: 1, Value: []byte(`{}`)},
		{Topic: "t", Offset: 2, Value: []byte(`{}`)},
	}}

	var handled []int64
	c := newConsumer(reader, "t", "g", 3, func(ctx context.Context, msg Message) error {
		handled = append(handled, msg.Offset)
		return nil
	}, testLogger())

	runConsumer(t, c, reader, 2)

	if len(handled) != 2 || handled[0] != 1 || handled[1] != 2 {
		t.Errorf("handled offsets = %v, want [1 2]", handled)
	}
	if len(reader.committed) != 2 {
		t.Errorf("committed %d messages, want 2", len(reader.committed))
	}
}

func TestConsumer_RetriesTransientErrors(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Topic: "t", Offset: 1}}}

	attempts := 0
	c := newConsumer(reader, "t", "g", 3, func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("store", errors.New("timeout"))
		}
		return nil
	}, testLogger())
	c.retryBackoff = time.Millisecond
	dlq := &fakeWriter{}
	c.dlqWriter = dlq

	runConsumer(t, c, reader, 1)

	if attempts != 3 {
		t.Errorf("handler ran %d times, want 3", attempts)
	}
	if len(dlq.written) != 0 {
		t.Errorf("DLQ received %d messages, want 0", len(dlq.written))
	}
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{
		Topic:   "t",
		Offset:  9,
		Key:     []byte("b1"),
		Value:   []byte(`not json`),
		Headers: []kafka.Header{{Key: HeaderEventID, Value: []byte("evt-1")}},
	}}}

	attempts := 0
	c := newConsumer(reader, "t", "g", 3, func(ctx context.Context, msg Message) error {
		attempts++
		return NewPermanentError("decode", errors.New("invalid character"))
	}, testLogger())
	dlq := &fakeWriter{}
	c.dlqWriter = dlq

	runConsumer(t, c, reader, 1)

	if attempts != 1 {
		t.Errorf("handler ran %d times, want 1", attempts)
	}
	if len(dlq.written) != 1 {
		t.Fatalf("DLQ received %d messages, want 1", len(dlq.written))
	}

	out := dlq.written[0]
	if string(out.Key) != "b1" || string(out.Value) != "not json" {
		t.Errorf("DLQ message = %s/%s", out.Key, out.Value)
	}
	if header(out, HeaderOriginalTopic) != "t" || header(out, HeaderDLQGroup) != "g" || header(out, HeaderEventID) != "evt-1" {
		t.Errorf("DLQ headers = %v", out.Headers)
	}
	if len(reader.committed) != 1 {
		t.Error("failed message should still be committed")
	}
}

func TestConsumer_MiddlewareOrder(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Topic: "t"}}}

	var order []string
	c := newConsumer(reader, "t", "g", 0, func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	}, testLogger())
	for _, name := range []string{"first", "second"} {
		name := name
		c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	runConsumer(t, c, reader, 1)

	want := []string{"first", "second", "handler"}
	if len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestConsumer_Close(t *testing.T) {
	reader := &fakeReader{}
	c := newConsumer(reader, "t", "g", 0, func(ctx context.Context, msg Message) error { return nil }, testLogger())

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !reader.closed {
		t.Error("reader not closed")
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrConsumerClosed) {
		t.Errorf("Start() after Close() error = %v, want ErrConsumerClosed", err)
	}
	if c.Lag() != 7 {
		t.Errorf("Lag() = %d", c.Lag())
	}
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "events", testLogger())

	var seen string
	p.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		seen = msg.Topic
		return next(ctx, msg)
	})

	msg, _ := NewMessage().WithKey("b1").WithRawValue([]byte(`{}`)).Build()
	if err := p.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if seen != "events" {
		t.Errorf("middleware saw topic %q, want events", seen)
	}
	if len(writer.written) != 1 || string(writer.written[0].Key) != "b1" {
		t.Errorf("written = %v", writer.written)
	}
	if writer.written[0].Topic != "" {
		t.Error("message topic must be empty when the writer sets one")
	}

	if err := p.Publish(context.Background(), Message{}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("Publish(empty) error = %v", err)
	}

	_ = p.Close()
	if err := p.Publish(context.Background(), msg); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("Publish() after Close() error = %v", err)
	}
}

func TestProducer_WrapsWriteErrors(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("leader not available")}, "events", testLogger())

	msg, _ := NewMessage().WithRawValue([]byte(`{}`)).Build()
	if err := p.Publish(context.Background(), msg); err == nil {
		t.Error("Publish() should fail when the writer fails")
	}
}
