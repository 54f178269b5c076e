package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"comanda/agg-svc/internal/domain"
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
	ctx context.Context
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		ctx: context.Background(),
	}
}

func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS branch_daily_sales (
			branch_id TEXT NOT NULL,
			day TEXT NOT NULL,
			orders INTEGER NOT NULL DEFAULT 0,
			payments INTEGER NOT NULL DEFAULT 0,
			revenue NUMERIC(12,2) NOT NULL DEFAULT 0,
			PRIMARY KEY (branch_id, day)
		)
	`)
	return err
}

func dayOf(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Format("2006-01-02")
}

func (s *Store) RecordOrderCreated(branchID string, ts time.Time) error {
	day := dayOf(ts)

	_, err := s.db.Exec(`
		INSERT INTO branch_daily_sales (branch_id, day, orders)
		VALUES ($1, $2, 1)
		ON CONFLICT (branch_id, day)
		DO UPDATE SET orders = branch_daily_sales.orders + 1
	`, branchID, day)
	if err != nil {
		return err
	}

	dailyKey := fmt.Sprintf("sales:orders:%s", day)
	s.rdb.ZIncrBy(s.ctx, dailyKey, 1, branchID)
	s.rdb.Expire(s.ctx, dailyKey, 7*24*time.Hour)
	return nil
}

func (s *Store) RecordPaymentCompleted(branchID string, amount float64, ts time.Time) error {
	day := dayOf(ts)

	_, err := s.db.Exec(`
		INSERT INTO branch_daily_sales (branch_id, day, payments, revenue)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (branch_id, day)
		DO UPDATE SET
			payments = branch_daily_sales.payments + 1,
			revenue = branch_daily_sales.revenue + EXCLUDED.revenue
	`, branchID, day, amount)
	if err != nil {
		return err
	}

	dailyKey := fmt.Sprintf("sales:revenue:%s", day)
	s.rdb.ZIncrBy(s.ctx, dailyKey, amount, branchID)
	s.rdb.Expire(s.ctx, dailyKey, 7*24*time.Hour)

	// Reload the row and mirror a snapshot in Redis for quick lookups.
	var orders, payments int
	var revenue float64
	err = s.db.QueryRow(`
		SELECT orders, payments, revenue
		FROM branch_daily_sales
		WHERE branch_id = $1 AND day = $2
	`, branchID, day).Scan(&orders, &payments, &revenue)
	if err != nil {
		return err
	}

	snapshotKey := fmt.Sprintf("sales:branch:%s:%s", branchID, day)
	s.rdb.HSet(s.ctx, snapshotKey, map[string]interface{}{
		"orders":       orders,
		"payments":     payments,
		"revenue":      revenue,
		"last_updated": time.Now().Unix(),
	})
	s.rdb.Expire(s.ctx, snapshotKey, 48*time.Hour)
	return nil
}

// TopBranches returns the day's revenue leaderboard, Redis first with a
// database fallback when the sorted set has expired.
func (s *Store) TopBranches(day string, limit int) ([]domain.BranchRevenue, error) {
	if limit <= 0 {
		limit = 10
	}

	dailyKey := fmt.Sprintf("sales:revenue:%s", day)
	entries, err := s.rdb.ZRevRangeWithScores(s.ctx, dailyKey, 0, int64(limit-1)).Result()
	if err == nil && len(entries) > 0 {
		result := make([]domain.BranchRevenue, 0, len(entries))
		for _, entry := range entries {
			branchID, ok := entry.Member.(string)
			if !ok {
				continue
			}
			result = append(result, domain.BranchRevenue{BranchID: branchID, Revenue: entry.Score})
		}
		return result, nil
	}

	rows, err := s.db.Query(`
		SELECT branch_id, revenue
		FROM branch_daily_sales
		WHERE day = $1
		ORDER BY revenue DESC
		LIMIT $2
	`, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BranchRevenue
	for rows.Next() {
		var entry domain.BranchRevenue
		if err := rows.Scan(&entry.BranchID, &entry.Revenue); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// BranchSales returns one branch's aggregates for a day. Returns nil when the
// branch has no activity that day.
func (s *Store) BranchSales(branchID, day string) (*domain.BranchSales, error) {
	sales := &domain.BranchSales{BranchID: branchID, Day: day}

	err := s.db.QueryRow(`
		SELECT orders, payments, revenue
		FROM branch_daily_sales
		WHERE branch_id = $1 AND day = $2
	`, branchID, day).Scan(&sales.Orders, &sales.Payments, &sales.Revenue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sales, nil
}
