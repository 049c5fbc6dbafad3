package ports

import "context"

// PaymentVerifier checks a registration payment receipt against the chain.
// Verification is a single attempt; a transient chain outage surfaces as a
// failed registration the agent retries.
type PaymentVerifier interface {
	Verify(ctx context.Context, receipt string) (PaymentProof, error)
}

type PaymentProof struct {
	Receipt string
	Amount  float64
	Payer   string
}
