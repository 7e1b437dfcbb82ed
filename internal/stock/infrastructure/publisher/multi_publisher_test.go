package publisher_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/publisher"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

type recordingSink struct {
	topics []string
	keys   []string
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, topic string, key string, event any) error {
	s.topics = append(s.topics, topic)
	s.keys = append(s.keys, key)
	return s.err
}

func TestPublishFansOutToAllSinks(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}

	multi := publisher.NewMultiPublisher(metrics.New("multitest"), slog.New(slog.DiscardHandler))
	multi.Add("first", first)
	multi.Add("second", second)

	err := multi.Publish(context.Background(), domain.StockUpdatesTopic, "AAPL", struct{}{})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for name, sink := range map[string]*recordingSink{"first": first, "second": second} {
		if len(sink.topics) != 1 {
			t.Fatalf("sink %s publish count = %d, want 1", name, len(sink.topics))
		}
		if sink.topics[0] != domain.StockUpdatesTopic {
			t.Errorf("sink %s topic = %q, want %q", name, sink.topics[0], domain.StockUpdatesTopic)
		}
		if sink.keys[0] != "AAPL" {
			t.Errorf("sink %s key = %q, want AAPL", name, sink.keys[0])
		}
	}
}

func TestPublishContinuesPastFailingSink(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker unavailable")}
	healthy := &recordingSink{}

	multi := publisher.NewMultiPublisher(metrics.New("multitest2"), slog.New(slog.DiscardHandler))
	multi.Add("failing", failing)
	multi.Add("healthy", healthy)

	if err := multi.Publish(context.Background(), domain.StockUpdatesTopic, "TSLA", struct{}{}); err != nil {
		t.Fatalf("Publish must not return sink errors, got %v", err)
	}
	if len(healthy.topics) != 1 {
		t.Errorf("healthy sink publish count = %d, want 1", len(healthy.topics))
	}
}

func TestPublishWithNoSinksIsNoop(t *testing.T) {
	multi := publisher.NewMultiPublisher(metrics.New("multitest3"), slog.New(slog.DiscardHandler))

	if err := multi.Publish(context.Background(), domain.StockUpdatesTopic, "NVDA", struct{}{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
