package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/stats/domain"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var _ domain.VolumeRepository = (*PostgresStatsRepo)(nil)

// PostgresStatsRepo runs aggregate queries over the tables the gorm
// repositories migrate.
type PostgresStatsRepo struct {
	db  *sql.DB
	log *logger.Logger
}

func NewPostgresStatsRepo(db *sql.DB, log *logger.Logger) *PostgresStatsRepo {
	return &PostgresStatsRepo{db: db, log: log}
}

func (r *PostgresStatsRepo) VolumeBySymbol(ctx context.Context, since time.Time, statuses []string) ([]domain.SymbolVolume, error) {
	query := `
	SELECT t.symbol, COALESCE(SUM(tx.from_amount::numeric), 0)::text, COUNT(*)
	FROM transactions tx
	JOIN tokens t ON t.id = tx.from_token_id
	WHERE tx.created_at >= $1 AND tx.status = ANY($2)
	GROUP BY t.symbol
	ORDER BY t.symbol ASC
	`
	rows, err := r.db.QueryContext(ctx, query, since, pq.Array(statuses))
	if err != nil {
		r.log.Errorf("failed to aggregate volume: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.SymbolVolume
	for rows.Next() {
		var (
			v         domain.SymbolVolume
			amountStr string
		)
		if err := rows.Scan(&v.Symbol, &amountStr, &v.Swaps); err != nil {
			r.log.Errorf("failed to scan volume row: %v", err)
			return nil, err
		}
		v.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		r.log.Errorf("rows iteration error: %v", err)
		return nil, err
	}
	return out, nil
}
