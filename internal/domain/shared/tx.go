package shared

import "context"

// TxRunner executes a function inside a single storage transaction.
// Repository implementations detect the active transaction through the
// context, so a command handler can mutate an entity, consult the emission
// guard, and append ledger rows with one atomic commit. If fn returns an
// error the whole transaction rolls back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
