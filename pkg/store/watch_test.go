package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/planner/pkg/record"
)

func recvTasks(t *testing.T, ch <-chan []record.Task) []record.Task {
	t.Helper()
	select {
	case all, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return all
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	if _, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "pre-existing"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	ch, _, cancel, err := p.SubscribeTasks(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	all := recvTasks(t, ch)
	if len(all) != 1 || all[0].Text != "pre-existing" {
		t.Fatalf("initial snapshot wrong: %v", all)
	}
}

func TestSubscribeDeliversFullSnapshotOnChange(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	ch, _, cancel, err := p.SubscribeTasks(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if got := recvTasks(t, ch); len(got) != 0 {
		t.Fatalf("expected empty initial snapshot, got %v", got)
	}

	if _, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "one"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Deliveries are full snapshots, never deltas; wait for the snapshot
	// that contains the write.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case all := <-ch:
			if len(all) == 1 && all[0].Text == "one" {
				return
			}
		case <-deadline:
			t.Fatal("snapshot with the new task never arrived")
		}
	}
}

func TestSubscribeCoalescesBursts(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	ch, _, cancel, err := p.SubscribeTasks(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	recvTasks(t, ch)

	for i := 0; i < 10; i++ {
		if _, err := p.CreateTask(ctx, "owner-1", record.Task{Text: "burst"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// However the burst coalesced, the stream converges on all 10.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case all := <-ch:
			if len(all) == 10 {
				return
			}
		case <-deadline:
			t.Fatal("stream never converged on the full set")
		}
	}
}

func TestSubscribeScopedToOwner(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	ch, _, cancel, err := p.SubscribeTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()
	recvTasks(t, ch)

	if _, err := p.CreateTask(ctx, "bob", record.Task{Text: "his"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := p.CreateTask(ctx, "alice", record.Task{Text: "hers"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case all := <-ch:
			for _, task := range all {
				if task.OwnerID != "alice" {
					t.Fatalf("foreign record delivered: %+v", task)
				}
			}
			if len(all) == 1 && all[0].Text == "hers" {
				return
			}
		case <-deadline:
			t.Fatal("alice's snapshot never arrived")
		}
	}
}

func TestSubscribeSignedOut(t *testing.T) {
	p := load(t)
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	ch, _, cancel, err := p.SubscribeEvents(ctx, "")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	select {
	case all := <-ch:
		if len(all) != 0 {
			t.Fatalf("signed-out subscription must be empty, got %v", all)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("signed-out subscription should deliver one empty snapshot")
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	ch, errs, cancel, err := p.SubscribeNotes(ctx, "owner-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A final in-flight snapshot may race the close; the next
			// receive must observe the closed channel.
			if _, ok := <-ch; ok {
				t.Fatal("channel not closed after cancel")
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel never closed after cancel")
	}
	select {
	case _, ok := <-errs:
		if ok {
			t.Fatal("error channel carried a value on plain cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error channel never closed after cancel")
	}
}

func TestSnapshotDeliveryDegradesOnListFailure(t *testing.T) {
	out := make(chan []record.Task, 1)
	errs := make(chan error, 1)

	boom := errors.New("list failed")
	deliverSnapshot(out, errs, func() ([]record.Task, error) { return nil, boom })

	select {
	case all := <-out:
		if len(all) != 0 {
			t.Fatalf("failed refresh must show an empty list, got %v", all)
		}
	default:
		t.Fatal("no snapshot delivered on failure")
	}
	select {
	case err := <-errs:
		if !errors.Is(err, boom) {
			t.Fatalf("wrong error surfaced: %v", err)
		}
	default:
		t.Fatal("list failure never surfaced")
	}

	// A later successful refresh replaces the degraded snapshot.
	deliverSnapshot(out, errs, func() ([]record.Task, error) {
		return []record.Task{{Text: "recovered"}}, nil
	})
	select {
	case all := <-out:
		if len(all) != 1 || all[0].Text != "recovered" {
			t.Fatalf("recovery snapshot wrong: %v", all)
		}
	default:
		t.Fatal("no snapshot delivered on recovery")
	}
}

func TestSnapshotDeliveryKeepsLatestError(t *testing.T) {
	out := make(chan []record.Task, 1)
	errs := make(chan error, 1)

	first := errors.New("first failure")
	second := errors.New("second failure")
	deliverSnapshot(out, errs, func() ([]record.Task, error) { return nil, first })
	deliverSnapshot(out, errs, func() ([]record.Task, error) { return nil, second })

	select {
	case err := <-errs:
		if !errors.Is(err, second) {
			t.Fatalf("expected the latest failure, got %v", err)
		}
	default:
		t.Fatal("no error surfaced")
	}
}
