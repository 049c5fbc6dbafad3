package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	ErrUnknownAction      = errors.New("unknown action")
	ErrInvalidParams      = errors.New("invalid params")
	ErrWrongLocation      = errors.New("wrong location")
	ErrInvalidDestination = errors.New("invalid destination")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrOutOfStock         = errors.New("out of stock")
	ErrChainInactive      = errors.New("gossip chain inactive")
	ErrAlreadyHeard       = errors.New("already heard this gossip")
	ErrPartyClosed        = errors.New("party closed")
	ErrProposalClosed     = errors.New("proposal closed")
	ErrTradeClosed        = errors.New("trade closed")
	ErrEmptyVibeSequence  = errors.New("empty vibe sequence")
	ErrPaymentRequired    = errors.New("payment required")

	// ErrInvariant marks a handler result that would corrupt world state;
	// the dispatcher aborts the transaction instead of committing it.
	ErrInvariant = errors.New("invariant violation")
)
