package tx

import "context"

type txKey struct{}

// WithTx returns a copy of ctx carrying t. Repository operations called with
// the returned context join t instead of beginning their own transaction.
func WithTx(ctx context.Context, t Tx) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

// FromContext returns the transaction carried by ctx, if any.
func FromContext(ctx context.Context) (Tx, bool) {
	t, ok := ctx.Value(txKey{}).(Tx)
	return t, ok && t != nil
}
