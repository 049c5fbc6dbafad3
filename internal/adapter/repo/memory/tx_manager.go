package memory

import "context"

// TxManager is the world's single-writer boundary. RunInTx holds the
// store's write lock for the whole callback, so an action or tick pass
// sees and mutates the tower without interleaving.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(ctx)
}
