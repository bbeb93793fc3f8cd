package repositories

import (
	"context"
	"testing"
)

type fakeTx struct{ id int }

func TestTxFrom(t *testing.T) {
	ctx := WithTx(context.Background(), &fakeTx{id: 1})

	tx, ok := TxFrom[*fakeTx](ctx)
	if !ok || tx.id != 1 {
		t.Fatalf("TxFrom = %v, %v; want tx 1", tx, ok)
	}

	if _, ok := TxFrom[*fakeTx](context.Background()); ok {
		t.Error("empty context reported a transaction")
	}
	if _, ok := TxFrom[string](ctx); ok {
		t.Error("transaction of another type was returned")
	}

	inner := WithTx(ctx, &fakeTx{id: 2})
	if tx, _ := TxFrom[*fakeTx](inner); tx.id != 2 {
		t.Errorf("nested transaction id = %d, want 2", tx.id)
	}
}
