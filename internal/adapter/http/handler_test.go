package httpadapter

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"towerverse/internal/app/ports"
	"towerverse/internal/app/register"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeCredentialStore struct {
	cred ports.AgentCredentialRecord
}

func (f fakeCredentialStore) Create(context.Context, ports.AgentCredentialRecord) error {
	return nil
}

func (f fakeCredentialStore) GetByAgentID(_ context.Context, agentID string) (ports.AgentCredentialRecord, error) {
	if f.cred.AgentID == "" || f.cred.AgentID != agentID {
		return ports.AgentCredentialRecord{}, ports.ErrNotFound
	}
	return f.cred, nil
}

func hashForTest(salt []byte, key string) []byte {
	sum := sha256.Sum256(append(append([]byte{}, salt...), key...))
	return sum[:]
}

func authedHandler(agentID, key string) Handler {
	salt := []byte("salt")
	return Handler{
		AuthUC: register.VerifyUseCase{TxManager: passthroughTx{}, Credentials: fakeCredentialStore{
			cred: ports.AgentCredentialRecord{
				AgentID: agentID,
				KeySalt: salt,
				KeyHash: hashForTest(salt, key),
				Status:  register.CredentialStatusActive,
			},
		}},
	}
}

func TestRequireAuthenticatedAgent_FromHeaders(t *testing.T) {
	h := authedHandler("res_1", "k1")
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(agentIDHeader, "res_1")
	ctx.Request.Header.Set(agentKeyHeader, "k1")

	agentID, err := h.requireAuthenticatedAgent(context.Background(), ctx)
	if err != nil {
		t.Fatalf("requireAuthenticatedAgent error: %v", err)
	}
	if agentID != "res_1" {
		t.Fatalf("unexpected agent id: %q", agentID)
	}
}

func TestRequireAuthenticatedAgent_MissingHeader(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	_, err := h.requireAuthenticatedAgent(context.Background(), ctx)
	if err != ErrMissingAgentCredentials {
		t.Fatalf("expected ErrMissingAgentCredentials, got %v", err)
	}
}

func TestRequireAuthenticatedAgent_MissingKeyHeader(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(agentIDHeader, "res_1")

	_, err := h.requireAuthenticatedAgent(context.Background(), ctx)
	if err != ErrMissingAgentKeyHeader {
		t.Fatalf("expected ErrMissingAgentKeyHeader, got %v", err)
	}
}

func TestRequireAuthenticatedAgent_InvalidCredentials(t *testing.T) {
	h := Handler{
		AuthUC: register.VerifyUseCase{TxManager: passthroughTx{}, Credentials: fakeCredentialStore{}},
	}
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(agentIDHeader, "res_1")
	ctx.Request.Header.Set(agentKeyHeader, "wrong")

	_, err := h.requireAuthenticatedAgent(context.Background(), ctx)
	if err != register.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func assertErrorResponse(t *testing.T, ctx *app.RequestContext, wantStatus int, wantCode string) {
	t.Helper()
	if got := ctx.Response.StatusCode(); got != wantStatus {
		t.Fatalf("status mismatch: got=%d want=%d", got, wantStatus)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got := body["error"]["code"]; got != wantCode {
		t.Fatalf("error code mismatch: got=%q want=%q", got, wantCode)
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{register.ErrInvalidCredentials, consts.StatusUnauthorized, "invalid_agent_credentials"},
		{register.ErrUnknownPersonality, consts.StatusBadRequest, "unknown_personality"},
		{ports.ErrUnknownAction, consts.StatusBadRequest, "unknown_action"},
		{ports.ErrInvalidParams, consts.StatusBadRequest, "invalid_params"},
		{ports.ErrInvalidDestination, consts.StatusBadRequest, "invalid_destination"},
		{ports.ErrPaymentRequired, consts.StatusPaymentRequired, "payment_required"},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{ports.ErrWrongLocation, consts.StatusConflict, "wrong_location"},
		{ports.ErrInsufficientFunds, consts.StatusConflict, "insufficient_funds"},
		{ports.ErrOutOfStock, consts.StatusConflict, "out_of_stock"},
		{ports.ErrChainInactive, consts.StatusConflict, "chain_inactive"},
		{ports.ErrAlreadyHeard, consts.StatusConflict, "already_heard"},
		{ports.ErrPartyClosed, consts.StatusConflict, "party_closed"},
		{ports.ErrProposalClosed, consts.StatusConflict, "proposal_closed"},
		{ports.ErrTradeClosed, consts.StatusConflict, "trade_closed"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
		{ports.ErrInvariant, consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		assertErrorResponse(t, ctx, tc.status, tc.code)
	}
}

func TestAct_InvalidJSONBody(t *testing.T) {
	h := authedHandler("res_1", "k1")
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"action":`))
	ctx.Request.Header.Set(agentIDHeader, "res_1")
	ctx.Request.Header.Set(agentKeyHeader, "k1")

	h.act(context.Background(), ctx)
	assertErrorResponse(t, ctx, consts.StatusBadRequest, "invalid_json")
}

func TestActions_ListsCatalog(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.actions(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body map[string][]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(body["actions"]) == 0 {
		t.Fatalf("expected a non-empty action catalog")
	}
	seen := map[string]bool{}
	for _, doc := range body["actions"] {
		name, _ := doc["name"].(string)
		seen[name] = true
	}
	for _, want := range []string{"move", "gossip_start", "throw_party", "buy", "duel", "vote", "explore"} {
		if !seen[want] {
			t.Fatalf("catalog missing %q", want)
		}
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)
	assertErrorResponse(t, ctx, consts.StatusNotFound, "not_configured")
}
