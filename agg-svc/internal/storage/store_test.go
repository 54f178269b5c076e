package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *redis.Client) {
	mockDB, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { rdb.Close() })

	return NewStore(mockDB, rdb), sqlMock, rdb
}

func TestRecordOrderCreated_Success(t *testing.T) {
	store, sqlMock, rdb := newTestStore(t)

	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	sqlMock.ExpectExec("INSERT INTO branch_daily_sales").
		WithArgs("b1", "2026-03-15").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.RecordOrderCreated("b1", ts); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}

	score := rdb.ZScore(context.Background(), "sales:orders:2026-03-15", "b1").Val()
	if score != 1 {
		t.Fatalf("expected order count 1 in redis, got %v", score)
	}
}

func TestRecordOrderCreated_UpdateError(t *testing.T) {
	store, sqlMock, _ := newTestStore(t)

	sqlMock.ExpectExec("INSERT INTO branch_daily_sales").
		WithArgs("b1", "2026-03-15").
		WillReturnError(errors.New("insert failed"))

	err := store.RecordOrderCreated("b1", time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRecordPaymentCompleted_Success(t *testing.T) {
	store, sqlMock, rdb := newTestStore(t)

	ts := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	sqlMock.ExpectExec("INSERT INTO branch_daily_sales").
		WithArgs("b1", "2026-03-15", 251.00).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows := sqlmock.NewRows([]string{"orders", "payments", "revenue"}).
		AddRow(3, 1, 251.00)
	sqlMock.ExpectQuery("SELECT orders, payments, revenue").
		WithArgs("b1", "2026-03-15").
		WillReturnRows(rows)

	if err := store.RecordPaymentCompleted("b1", 251.00, ts); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}

	ctx := context.Background()
	score := rdb.ZScore(ctx, "sales:revenue:2026-03-15", "b1").Val()
	if score != 251.00 {
		t.Fatalf("expected revenue 251.00 in redis, got %v", score)
	}

	snapshot := rdb.HGetAll(ctx, "sales:branch:b1:2026-03-15").Val()
	if snapshot["orders"] != "3" {
		t.Fatalf("expected snapshot orders 3, got %q", snapshot["orders"])
	}
	if snapshot["revenue"] != "251" {
		t.Fatalf("expected snapshot revenue 251, got %q", snapshot["revenue"])
	}
}

func TestTopBranches_RedisFirst(t *testing.T) {
	store, _, rdb := newTestStore(t)
	ctx := context.Background()

	rdb.ZAdd(ctx, "sales:revenue:2026-03-15", redis.Z{Score: 900.00, Member: "b2"})
	rdb.ZAdd(ctx, "sales:revenue:2026-03-15", redis.Z{Score: 400.00, Member: "b1"})

	top, err := store.TopBranches("2026-03-15", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].BranchID != "b2" || top[0].Revenue != 900.00 {
		t.Fatalf("expected b2 first with 900.00, got %+v", top[0])
	}
}

func TestTopBranches_DatabaseFallback(t *testing.T) {
	store, sqlMock, _ := newTestStore(t)

	rows := sqlmock.NewRows([]string{"branch_id", "revenue"}).
		AddRow("b2", 900.00).
		AddRow("b1", 400.00)
	sqlMock.ExpectQuery("SELECT branch_id, revenue").
		WithArgs("2026-03-14", 10).
		WillReturnRows(rows)

	top, err := store.TopBranches("2026-03-14", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(top) != 2 || top[0].BranchID != "b2" {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}

	if err := sqlMock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestBranchSales_NotFound(t *testing.T) {
	store, sqlMock, _ := newTestStore(t)

	sqlMock.ExpectQuery("SELECT orders, payments, revenue").
		WithArgs("b9", "2026-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"orders", "payments", "revenue"}))

	sales, err := store.BranchSales("b9", "2026-03-15")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sales != nil {
		t.Fatalf("expected nil sales, got %+v", sales)
	}
}

func TestBranchSales_Found(t *testing.T) {
	store, sqlMock, _ := newTestStore(t)

	rows := sqlmock.NewRows([]string{"orders", "payments", "revenue"}).
		AddRow(5, 4, 1230.50)
	sqlMock.ExpectQuery("SELECT orders, payments, revenue").
		WithArgs("b1", "2026-03-15").
		WillReturnRows(rows)

	sales, err := store.BranchSales("b1", "2026-03-15")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sales == nil || sales.Orders != 5 || sales.Revenue != 1230.50 {
		t.Fatalf("unexpected sales: %+v", sales)
	}
}
