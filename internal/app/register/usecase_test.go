package register

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"towerverse/internal/adapter/repo/memory"
	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

func newUseCase(store *memory.Store) UseCase {
	return UseCase{
		Credentials: memory.NewCredentialRepo(store),
		Residents:   memory.NewResidentRepo(store),
		Clock:       memory.NewClockRepo(store),
		Events:      memory.NewEventLog(store),
		TxManager:   memory.NewTxManager(store),
		Now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRegisterSeedsResident(t *testing.T) {
	store := memory.NewStore()
	u := newUseCase(store)

	resp, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "nerd"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.AgentID == "" || resp.AgentKey == "" {
		t.Fatalf("missing credentials: %+v", resp)
	}

	var r tower.Resident
	err = memory.NewTxManager(store).RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		r, err = memory.NewResidentRepo(store).Get(ctx, resp.AgentID)
		return err
	})
	if err != nil {
		t.Fatalf("get resident: %v", err)
	}
	if r.LocationID != tower.LocationLobby {
		t.Fatalf("new residents start in the lobby, got %s", r.LocationID)
	}
	if r.Tokens != tower.StartingTokens || r.Sanity != tower.MaxSanity {
		t.Fatalf("starting state mismatch: tokens=%d sanity=%d", r.Tokens, r.Sanity)
	}
	if r.Traits != tower.Nerd.BaseTraits() {
		t.Fatalf("personality traits not applied")
	}

	// The building logged the arrival.
	var events []tower.Event
	err = memory.NewTxManager(store).RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		events, err = memory.NewEventLog(store).ListRecent(ctx, 10)
		return err
	})
	if err != nil || len(events) != 1 || events[0].Type != tower.EventResidentEnter {
		t.Fatalf("enter event missing: %v %+v", err, events)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	u := newUseCase(memory.NewStore())

	if _, err := u.Execute(context.Background(), Request{Name: "", Personality: "nerd"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty name: got %v", err)
	}
	if _, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "influencer"}); !errors.Is(err, ErrUnknownPersonality) {
		t.Fatalf("bad personality: got %v", err)
	}
}

func TestRegisterAllowsDuplicateNames(t *testing.T) {
	u := newUseCase(memory.NewStore())

	a, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "nerd"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "schemer"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if a.AgentID == b.AgentID {
		t.Fatalf("ids must be unique")
	}
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) (ports.PaymentProof, error) {
	return ports.PaymentProof{}, errors.New("no receipt")
}

func TestRegisterEnforcesPaymentWhenConfigured(t *testing.T) {
	u := newUseCase(memory.NewStore())
	u.Payment = rejectingVerifier{}

	if _, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "nerd"}); !errors.Is(err, ports.ErrPaymentRequired) {
		t.Fatalf("want ErrPaymentRequired, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	store := memory.NewStore()
	u := newUseCase(store)

	resp, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "nerd"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	v := VerifyUseCase{TxManager: memory.NewTxManager(store), Credentials: memory.NewCredentialRepo(store)}
	if err := v.Execute(context.Background(), VerifyRequest{AgentID: resp.AgentID, AgentKey: resp.AgentKey}); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
	if err := v.Execute(context.Background(), VerifyRequest{AgentID: resp.AgentID, AgentKey: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong key accepted: %v", err)
	}
	if err := v.Execute(context.Background(), VerifyRequest{AgentID: "ghost", AgentKey: resp.AgentKey}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown agent accepted: %v", err)
	}
}

// Registration writes the credential map while verification reads it on
// every authenticated request. Both must go through the store lock; run
// with -race.
func TestVerifyDuringConcurrentRegistration(t *testing.T) {
	store := memory.NewStore()
	u := newUseCase(store)
	v := VerifyUseCase{TxManager: memory.NewTxManager(store), Credentials: memory.NewCredentialRepo(store)}

	first, err := u.Execute(context.Background(), Request{Name: "Pixel", Personality: "nerd"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := u.Execute(context.Background(), Request{
				Name:        fmt.Sprintf("Walk-in %d", i),
				Personality: "chaos_gremlin",
			}); err != nil {
				t.Errorf("register %d: %v", i, err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := v.Execute(context.Background(), VerifyRequest{
				AgentID:  first.AgentID,
				AgentKey: first.AgentKey,
			}); err != nil {
				t.Errorf("verify %d: %v", i, err)
				return
			}
		}
	}()
	wg.Wait()
}
