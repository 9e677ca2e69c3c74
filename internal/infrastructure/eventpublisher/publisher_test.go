package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledger/internal/domain"
	"github.com/iho/ledger/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeTransactionPosted}},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)

	n, err := ep.processEvents(context.Background())
	if err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if n != 1 || len(pub.published) != 1 {
		t.Fatalf("expected one published event, got n=%d published=%d", n, len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeTransactionPosted},
			{ID: "evt-2", EventType: domain.EventTypeAccountCreated},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	observer := &stubObserver{}
	ep := newTestPublisher(repo, pub)
	ep.observer = observer

	if _, err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
	if observer.ok != 1 || observer.failed != 1 {
		t.Fatalf("expected one success and one failure observed, got %+v", observer)
	}
}

func TestProcessEventsRepositoryError(t *testing.T) {
	repo := &stubOutboxRepo{err: errors.New("db down")}
	ep := newTestPublisher(repo, &stubPublisher{})

	if _, err := ep.processEvents(context.Background()); err == nil {
		t.Fatalf("expected repository error")
	}
}

func TestDrainPublishesEverything(t *testing.T) {
	repo := &stubOutboxRepo{}
	for i := 0; i < 25; i++ {
		repo.events = append(repo.events, &domain.OutboxEvent{ID: string(rune('a' + i))})
	}
	ep := newTestPublisher(repo, &stubPublisher{})
	ep.batchSize = 10

	n, err := ep.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if n != 25 || len(repo.marked) != 25 {
		t.Fatalf("expected 25 events drained, got n=%d marked=%d", n, len(repo.marked))
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisherWritesPayload(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: domain.EventTypeAccountCreated,
		Payload:   map[string]any{"account_id": "acc-1"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"payload":{"account_id":"acc-1"}`) {
		t.Fatalf("expected payload in log line, got %s", buf.String())
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events []*domain.OutboxEvent
	marked []string
	err    error
}

func (s *stubOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if s.err != nil {
		return nil, s.err
	}

	markedSet := make(map[string]bool, len(s.marked))
	for _, id := range s.marked {
		markedSet[id] = true
	}

	var out []*domain.OutboxEvent
	for _, e := range s.events {
		if markedSet[e.ID] {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}

type stubObserver struct {
	ok, failed int
}

func (s *stubObserver) EventPublished(err error) {
	if err != nil {
		s.failed++
		return
	}
	s.ok++
}
