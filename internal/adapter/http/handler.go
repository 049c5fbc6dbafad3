package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"towerverse/internal/app/dispatch"
	"towerverse/internal/app/observe"
	"towerverse/internal/app/ports"
	"towerverse/internal/app/register"
	"towerverse/internal/app/replay"
	"towerverse/internal/app/status"
)

const agentIDHeader = "X-Agent-ID"
const agentKeyHeader = "X-Agent-Key"

type Handler struct {
	RegisterUC register.UseCase
	AuthUC     register.VerifyUseCase
	DispatchUC dispatch.UseCase
	ObserveUC  observe.UseCase
	StatusUC   status.UseCase
	ReplayUC   replay.UseCase
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	agent := s.Group("/api/agent")
	agent.POST("/register", h.register)
	agent.POST("/act", h.act)
	agent.POST("/observe", h.observe)
	agent.GET("/replay", h.replay)

	world := s.Group("/api/world")
	world.GET("/snapshot", h.snapshot)
	world.GET("/actions", h.actions)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	var body register.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RegisterUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

type actRequest struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

func (h Handler) act(c context.Context, ctx *app.RequestContext) {
	agentID, err := h.requireAuthenticatedAgent(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body actRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.DispatchUC.Execute(c, dispatch.Request{
		AgentID: agentID,
		Action:  body.Action,
		Params:  body.Params,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	// Agents decide their next move off the act response alone, so ship
	// the refreshed context with the result.
	obs, err := h.ObserveUC.Execute(c, observe.Request{AgentID: agentID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, actResponse{
		Response: resp,
		Context:  contextResponse{Response: obs, AvailableActions: dispatch.ActionDocsFor(obs.Location.Behavior)},
	})
}

type actResponse struct {
	dispatch.Response
	Context contextResponse `json:"context"`
}

type contextResponse struct {
	observe.Response
	AvailableActions []dispatch.ActionDoc `json:"available_actions"`
}

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	agentID, err := h.requireAuthenticatedAgent(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.ObserveUC.Execute(c, observe.Request{AgentID: agentID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, contextResponse{
		Response:         resp,
		AvailableActions: dispatch.ActionDocsFor(resp.Location.Behavior),
	})
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	_, err := h.requireAuthenticatedAgent(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	afterSeq, _ := strconv.ParseInt(string(ctx.Query("after_seq")), 10, 64)
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		AfterSeq: afterSeq,
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) snapshot(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) actions(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"actions": dispatch.ActionDocs()})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingAgentIDHeader = errors.New("missing x-agent-id header")
var ErrMissingAgentKeyHeader = errors.New("missing x-agent-key header")
var ErrMissingAgentCredentials = errors.New("missing agent credentials")

func (h Handler) requireAuthenticatedAgent(c context.Context, ctx *app.RequestContext) (string, error) {
	agentID := strings.TrimSpace(string(ctx.GetHeader(agentIDHeader)))
	agentKey := strings.TrimSpace(string(ctx.GetHeader(agentKeyHeader)))
	if agentID == "" && agentKey == "" {
		return "", ErrMissingAgentCredentials
	}
	if agentID == "" {
		return "", ErrMissingAgentIDHeader
	}
	if agentKey == "" {
		return "", ErrMissingAgentKeyHeader
	}
	if err := h.AuthUC.Execute(c, register.VerifyRequest{
		AgentID:  agentID,
		AgentKey: agentKey,
	}); err != nil {
		return "", err
	}
	return agentID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingAgentCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_credentials", err.Error())
	case errors.Is(err, ErrMissingAgentIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_id", err.Error())
	case errors.Is(err, ErrMissingAgentKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_agent_key", err.Error())
	case errors.Is(err, register.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_agent_credentials", err.Error())
	case errors.Is(err, register.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, register.ErrUnknownPersonality):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_personality", err.Error())
	case errors.Is(err, ports.ErrUnknownAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_action", err.Error())
	case errors.Is(err, ports.ErrInvalidParams):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_params", err.Error())
	case errors.Is(err, ports.ErrInvalidDestination):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_destination", err.Error())
	case errors.Is(err, ports.ErrEmptyVibeSequence):
		writeErrorBody(ctx, consts.StatusBadRequest, "empty_vibe_sequence", err.Error())
	case errors.Is(err, ports.ErrPaymentRequired):
		writeErrorBody(ctx, consts.StatusPaymentRequired, "payment_required", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrWrongLocation):
		writeErrorBody(ctx, consts.StatusConflict, "wrong_location", err.Error())
	case errors.Is(err, ports.ErrInsufficientFunds):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, ports.ErrOutOfStock):
		writeErrorBody(ctx, consts.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, ports.ErrChainInactive):
		writeErrorBody(ctx, consts.StatusConflict, "chain_inactive", err.Error())
	case errors.Is(err, ports.ErrAlreadyHeard):
		writeErrorBody(ctx, consts.StatusConflict, "already_heard", err.Error())
	case errors.Is(err, ports.ErrPartyClosed):
		writeErrorBody(ctx, consts.StatusConflict, "party_closed", err.Error())
	case errors.Is(err, ports.ErrProposalClosed):
		writeErrorBody(ctx, consts.StatusConflict, "proposal_closed", err.Error())
	case errors.Is(err, ports.ErrTradeClosed):
		writeErrorBody(ctx, consts.StatusConflict, "trade_closed", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
