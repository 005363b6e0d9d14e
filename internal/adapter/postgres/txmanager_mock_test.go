package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRunInTx_Mock_Commit(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cards`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	err := NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := QuerierFromCtx(ctx, mock).Exec(ctx, `DELETE FROM cards`)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunInTx_Mock_RollbackOnError(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)
	sentinel := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunInTx_Mock_BeginFails(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connections"))

	called := false
	err := NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected begin error")
	}
	if called {
		t.Error("callback must not run when begin fails")
	}
}

func TestQuerierFromCtx_NoTx_ReturnsPool(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	if got := QuerierFromCtx(context.Background(), mock); got != Querier(mock) {
		t.Error("QuerierFromCtx without a transaction should return the pool")
	}
}
