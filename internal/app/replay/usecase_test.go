package replay

import (
	"context"
	"testing"

	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/domain/tower"
)

func seedEvents(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	err := memory.NewTxManager(store).RunInTx(context.Background(), func(ctx context.Context) error {
		log := memory.NewEventLog(store)
		for i := 0; i < n; i++ {
			if _, err := log.Append(ctx, tower.Event{Tick: int64(i), Type: tower.EventTalk}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed events: %v", err)
	}
}

func newUseCase(store *memory.Store) UseCase {
	return UseCase{
		TxManager: memory.NewTxManager(store),
		Events:    memory.NewEventLog(store),
	}
}

func TestReplayPagesWithCursor(t *testing.T) {
	store := memory.NewStore()
	seedEvents(t, store, 5)
	u := newUseCase(store)

	first, err := u.Execute(context.Background(), Request{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Events) != 2 || !first.HasMore {
		t.Fatalf("first page wrong: events=%d has_more=%v", len(first.Events), first.HasMore)
	}
	if first.NextSeq != 2 {
		t.Fatalf("expected next_seq 2, got %d", first.NextSeq)
	}

	second, err := u.Execute(context.Background(), Request{AfterSeq: first.NextSeq, Limit: 2})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Events) != 2 || second.Events[0].Seq != 3 {
		t.Fatalf("second page wrong: %+v", second.Events)
	}

	last, err := u.Execute(context.Background(), Request{AfterSeq: second.NextSeq, Limit: 2})
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(last.Events) != 1 || last.HasMore {
		t.Fatalf("last page wrong: events=%d has_more=%v", len(last.Events), last.HasMore)
	}
}

func TestReplayEmptyTail(t *testing.T) {
	store := memory.NewStore()
	seedEvents(t, store, 1)
	u := newUseCase(store)

	resp, err := u.Execute(context.Background(), Request{AfterSeq: 1})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(resp.Events) != 0 || resp.HasMore {
		t.Fatalf("expected empty tail, got %+v", resp)
	}
	if resp.NextSeq != 1 {
		t.Fatalf("cursor must not move on empty page, got %d", resp.NextSeq)
	}
}

func TestReplayCapsLimit(t *testing.T) {
	store := memory.NewStore()
	seedEvents(t, store, 3)
	u := newUseCase(store)

	resp, err := u.Execute(context.Background(), Request{Limit: 100000})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(resp.Events) != 3 {
		t.Fatalf("expected all 3 events, got %d", len(resp.Events))
	}
}
