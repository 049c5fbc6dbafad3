// Package replay pages through the event log with a sequence cursor so an
// agent that was offline can catch up on what the building did without it.
package replay

import (
	"context"

	"towerverse/internal/app/ports"
	"towerverse/internal/domain/tower"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Request struct {
	AfterSeq int64
	Limit    int
}

type Response struct {
	Events  []tower.Event `json:"events"`
	NextSeq int64         `json:"next_seq"`
	HasMore bool          `json:"has_more"`
}

type UseCase struct {
	TxManager ports.TxManager
	Events    ports.EventLog
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Fetch one extra to learn whether a further page exists.
		events, err := u.Events.ListAfter(txCtx, req.AfterSeq, limit+1)
		if err != nil {
			return err
		}
		hasMore := len(events) > limit
		if hasMore {
			events = events[:limit]
		}
		next := req.AfterSeq
		if len(events) > 0 {
			next = events[len(events)-1].Seq
		}
		out = Response{Events: events, NextSeq: next, HasMore: hasMore}
		return nil
	})
	return out, err
}
