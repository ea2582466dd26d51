package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryChannelDeliversInOrder(t *testing.T) {
	channel := NewMemoryChannel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := channel.Publish(ctx, Event{RecipientUserID: "1", Message: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = channel.Run(ctx, func(_ context.Context, evt Event) error {
			mu.Lock()
			got = append(got, evt)
			mu.Unlock()
			return nil
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 5 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d", len(got))
	}
	for i, evt := range got {
		if evt.Message != fmt.Sprintf("m%d", i) {
			t.Fatalf("out of order delivery: %+v", got)
		}
	}

	cancel()
	<-done
}

func TestMemoryChannelRetriesFailedHandler(t *testing.T) {
	channel := NewMemoryChannel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := channel.Publish(ctx, Event{RecipientUserID: "1", Message: "m0"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	attempts := 0
	var mu sync.Mutex
	delivered := make(chan Event, 1)
	go func() {
		_ = channel.Run(ctx, func(_ context.Context, evt Event) error {
			mu.Lock()
			attempts++
			first := attempts == 1
			mu.Unlock()
			if first {
				return errors.New("persist failed")
			}
			delivered <- evt
			return nil
		})
	}()

	select {
	case evt := <-delivered:
		if evt.Message != "m0" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not redelivered after handler failure")
	}

	deadline := time.Now().Add(time.Second)
	for channel.Pending() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected drained queue, got %d pending", channel.Pending())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
