package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConn(t *testing.T) {
	db := &sql.DB{}

	t.Run("falls back to the pool without a transaction", func(t *testing.T) {
		assert.Same(t, db, Conn(context.Background(), db))
	})

	t.Run("nil transaction is not stored", func(t *testing.T) {
		ctx := WithTx(context.Background(), nil)
		_, ok := From(ctx)
		assert.False(t, ok)
	})

	t.Run("prefers the transaction in context", func(t *testing.T) {
		sqlTx := &sql.Tx{}
		ctx := WithTx(context.Background(), sqlTx)
		assert.Same(t, sqlTx, Conn(ctx, db))
	})
}
