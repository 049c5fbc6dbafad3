// Package payment provides implementations of the entry-fee verifier.
package payment

import (
	"context"
	"errors"
	"strings"

	"towerverse/internal/app/ports"
)

var ErrEmptyReceipt = errors.New("empty payment receipt")

// AcceptAll verifies any non-empty receipt. It stands in for a real
// payment processor in development and sandbox deployments.
type AcceptAll struct {
	// Amount is the fee reported on every proof.
	Amount float64
}

func (v AcceptAll) Verify(_ context.Context, receipt string) (ports.PaymentProof, error) {
	receipt = strings.TrimSpace(receipt)
	if receipt == "" {
		return ports.PaymentProof{}, ErrEmptyReceipt
	}
	return ports.PaymentProof{Receipt: receipt, Amount: v.Amount}, nil
}
