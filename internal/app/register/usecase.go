package register

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

const (
	CredentialStatusActive = "active"

	maxNameRunes = 40
)

var (
	ErrInvalidRequest     = errors.New("invalid register request")
	ErrInvalidCredentials = errors.New("invalid agent credentials")
	ErrUnknownPersonality = errors.New("unknown personality")
)

type Request struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Receipt     string `json:"payment_receipt,omitempty"`
}

type Response struct {
	AgentID  string           `json:"agent_id"`
	AgentKey string           `json:"agent_key"`
	Resident tower.PublicView `json:"resident"`
	IssuedAt string           `json:"issued_at"`
}

// UseCase creates a resident and its API credential in one transaction.
// Payment verification, when configured, happens before the transaction:
// the chain call must not run under the world lock.
type UseCase struct {
	Credentials ports.AgentCredentialRepository
	Residents   ports.ResidentRepository
	Clock       ports.ClockRepository
	Events      ports.EventLog
	Broadcast   ports.EventBroadcaster
	Payment     ports.PaymentVerifier
	TxManager   ports.TxManager
	Now         func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Credentials == nil || u.Residents == nil || u.Clock == nil || u.Events == nil || u.TxManager == nil {
		return Response{}, ErrInvalidRequest
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len([]rune(name)) > maxNameRunes {
		return Response{}, ErrInvalidRequest
	}
	personality := tower.Personality(req.Personality)
	if !personality.Valid() {
		return Response{}, ErrUnknownPersonality
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	if u.Payment != nil {
		if _, err := u.Payment.Verify(ctx, req.Receipt); err != nil {
			return Response{}, ports.ErrPaymentRequired
		}
	}

	agentID := "res_" + uuid.NewString()
	agentKey, err := randomToken(32)
	if err != nil {
		return Response{}, err
	}
	salt, err := randomBytes(16)
	if err != nil {
		return Response{}, err
	}
	hash := credentialHash(salt, agentKey)

	var seeded tower.Resident
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		tick, err := u.Clock.CurrentTick(txCtx)
		if err != nil {
			return err
		}
		if err := u.Credentials.Create(txCtx, ports.AgentCredentialRecord{
			AgentID:   agentID,
			KeySalt:   salt,
			KeyHash:   hash,
			Status:    CredentialStatusActive,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		seeded = tower.NewResident(agentID, name, personality, tick)
		seeded.UpdatedAt = now
		if err := u.Residents.Save(txCtx, seeded); err != nil {
			return err
		}
		e, err := u.Events.Append(txCtx, tower.Event{
			Tick:       tick,
			Type:       tower.EventResidentEnter,
			ResidentID: agentID,
			LocationID: seeded.LocationID,
			Payload:    map[string]any{"name": name, "personality": string(personality)},
			At:         now,
		})
		if err != nil {
			return err
		}
		if u.Broadcast != nil {
			u.Broadcast.Broadcast(e)
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	return Response{
		AgentID:  agentID,
		AgentKey: agentKey,
		Resident: seeded.Public(),
		IssuedAt: now.Format(time.RFC3339),
	}, nil
}

type VerifyRequest struct {
	AgentID  string
	AgentKey string
}

type VerifyUseCase struct {
	TxManager   ports.TxManager
	Credentials ports.AgentCredentialRepository
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.AgentID = strings.TrimSpace(req.AgentID)
	req.AgentKey = strings.TrimSpace(req.AgentKey)
	if req.AgentID == "" || req.AgentKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	// The credential lookup shares the store with registration writes, so
	// it goes through the same transaction boundary as every other read.
	var cred ports.AgentCredentialRecord
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		cred, err = u.Credentials.GetByAgentID(txCtx, req.AgentID)
		return err
	})
	if err != nil {
		if err == ports.ErrNotFound {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.AgentKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
