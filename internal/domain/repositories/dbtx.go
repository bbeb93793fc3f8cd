package repositories

import "context"

type txKey struct{}

// WithTx stores a store-specific transaction handle (pgx.Tx, *sql.Tx) in ctx
func WithTx[T any](ctx context.Context, tx T) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction stored by WithTx.
// ok is false when ctx carries no transaction or one of a different type.
func TxFrom[T any](ctx context.Context) (tx T, ok bool) {
	tx, ok = ctx.Value(txKey{}).(T)
	return tx, ok
}
