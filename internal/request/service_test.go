package request

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peerpay/peer_pay/internal/event"
	"github.com/peerpay/peer_pay/internal/logging"
	"github.com/peerpay/peer_pay/internal/notification"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturePublisher) Publish(_ context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *capturePublisher) published() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

func newTestService() (*Service, *capturePublisher) {
	pub := &capturePublisher{}
	return NewService(NewMemoryRepository(), pub, logging.Discard()), pub
}

func TestCreateAndApprove(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	mr, err := svc.Create(ctx, CreateInput{
		RequesterID: "1",
		RecipientID: "2",
		Amount:      decimal.NewFromInt(50),
		Message:     "lunch",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if mr.Status != StatusPending {
		t.Fatalf("expected pending, got %s", mr.Status)
	}

	events := pub.published()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].RecipientUserID != "2" {
		t.Fatalf("create must notify the recipient, got %s", events[0].RecipientUserID)
	}
	if events[0].Message != "You have a new money request for 50.00." {
		t.Fatalf("unexpected message: %q", events[0].Message)
	}
	if events[0].Type != notification.TypeMoneyRequest {
		t.Fatalf("unexpected type: %q", events[0].Type)
	}

	if err := svc.Approve(ctx, mr.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	events = pub.published()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].RecipientUserID != "1" {
		t.Fatalf("approve must notify the requester, got %s", events[1].RecipientUserID)
	}
	if events[1].Message != "Your money request for 50.00 was approved." {
		t.Fatalf("unexpected message: %q", events[1].Message)
	}

	listed, err := svc.ListForUser(ctx, "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != StatusApproved {
		t.Fatalf("expected one approved request, got %+v", listed)
	}
}

func TestTransitionsAreOneShot(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mr, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := svc.Approve(ctx, mr.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if err := svc.Approve(ctx, mr.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not pending on re-approve, got %v", err)
	}
	if err := svc.Reject(ctx, mr.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not pending on reject, got %v", err)
	}
	if err := svc.Cancel(ctx, mr.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not pending on cancel, got %v", err)
	}
}

func TestRejectNotifiesRequester(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	mr, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.NewFromInt(75)})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := svc.Reject(ctx, mr.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	events := pub.published()
	last := events[len(events)-1]
	if last.RecipientUserID != "1" {
		t.Fatalf("reject must notify the requester, got %s", last.RecipientUserID)
	}
	if last.Message != "Your money request for 75.00 was rejected." {
		t.Fatalf("unexpected message: %q", last.Message)
	}
}

func TestCancelDeletesOnlyPending(t *testing.T) {
	svc, pub := newTestService()
	ctx := context.Background()

	pending, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.NewFromInt(20)})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := svc.Cancel(ctx, pending.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	events := pub.published()
	last := events[len(events)-1]
	if last.RecipientUserID != "2" {
		t.Fatalf("cancel must notify the recipient, got %s", last.RecipientUserID)
	}

	listed, err := svc.ListForUser(ctx, "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("cancelled request still listed: %+v", listed)
	}

	approved, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.NewFromInt(30)})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := svc.Approve(ctx, approved.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Cancel(ctx, approved.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not pending cancelling approved request, got %v", err)
	}

	listed, err = svc.ListForUser(ctx, "1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("approved request must survive failed cancel, got %+v", listed)
	}
}

func TestUnknownRequest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, op := range []func(context.Context, string) error{svc.Approve, svc.Reject, svc.Cancel} {
		if err := op(ctx, "b8f7f3e2-5c3a-4d2e-9f1a-000000000000"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.Zero}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{RecipientID: "2", Amount: decimal.NewFromInt(5)}); err == nil {
		t.Fatal("expected error for missing requester")
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, &capturePublisher{}, logging.Discard())
	ctx := context.Background()

	// Insert directly with shuffled timestamps to exercise the ordering.
	base := time.Now()
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		mr := MoneyRequest{
			ID:          [3]string{"a", "b", "c"}[i],
			RequesterID: "1",
			RecipientID: "2",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Status:      StatusPending,
			CreatedAt:   base.Add(offset),
		}
		if err := repo.Create(ctx, mr); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}

	listed, err := svc.ListForUser(ctx, "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Fatalf("requests not in descending order: %v then %v", listed[i-1].CreatedAt, listed[i].CreatedAt)
		}
	}
}

func TestConcurrentTransitionsOneWinner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mr, err := svc.Create(ctx, CreateInput{RequesterID: "1", RecipientID: "2", Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	ops := []func(context.Context, string) error{svc.Approve, svc.Reject, svc.Cancel}
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for _, op := range ops {
		wg.Add(1)
		go func(op func(context.Context, string) error) {
			defer wg.Done()
			err := op(ctx, mr.ID)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrNotPending) && !errors.Is(err, ErrNotFound) {
				t.Errorf("unexpected transition error: %v", err)
			}
		}(op)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one transition to win, got %d", winners)
	}
}
