package history

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"delicias-urbanas/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresStore_Get(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("orders").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`[]`))

	store := NewPostgres(mock, nil)
	got, err := store.Get(ctx, "orders")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store`)).
		WithArgs("orders").
		WillReturnRows(pgxmock.NewRows([]string{"value"}))

	store := NewPostgres(mock, nil)
	if _, err := store.Get(ctx, "orders"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStore_Set(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (key, value, updated_at)`)).
		WithArgs("orders", `[{"id":"A"}]`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgres(mock, nil)
	if err := store.Set(ctx, "orders", []byte(`[{"id":"A"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresStore_SetError(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new mock: %v", err)
	}
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store`)).
		WithArgs("orders", `[]`).
		WillReturnError(boom)

	store := NewPostgres(mock, nil)
	if err := store.Set(ctx, "orders", []byte(`[]`)); !errors.Is(err, boom) {
		t.Fatalf("expected exec error, got %v", err)
	}
}
