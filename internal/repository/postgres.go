package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore is the pgx-backed Store implementation.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects a pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("postgres store ready",
		zap.Int32("total_conns", pool.Stat().TotalConns()),
	)
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS match_results (
    match_id    TEXT PRIMARY KEY,
    winner_id   TEXT NOT NULL,
    loser_id    TEXT NOT NULL,
    turns       INT NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS fusion_discoveries (
    player_id      TEXT NOT NULL,
    discovery_key  TEXT NOT NULL,
    result_card_id INT NOT NULL,
    first_fused_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (player_id, discovery_key)
);`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) SaveMatchResult(ctx context.Context, result MatchResult) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO match_results (match_id, winner_id, loser_id, turns, finished_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (match_id) DO NOTHING`,
		result.MatchID, result.WinnerID, result.LoserID, result.Turns, result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save match result %s: %w", result.MatchID, err)
	}
	return nil
}

func (s *PostgresStore) RecordDiscovery(ctx context.Context, d Discovery) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fusion_discoveries (player_id, discovery_key, result_card_id, first_fused_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (player_id, discovery_key) DO NOTHING`,
		d.PlayerID, d.Key, d.ResultCardID, d.FirstFusedAt,
	)
	if err != nil {
		return fmt.Errorf("record discovery %q for %s: %w", d.Key, d.PlayerID, err)
	}
	return nil
}

func (s *PostgresStore) ListDiscoveries(ctx context.Context, playerID string) ([]Discovery, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT player_id, discovery_key, result_card_id, first_fused_at
		 FROM fusion_discoveries WHERE player_id = $1 ORDER BY discovery_key`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list discoveries for %s: %w", playerID, err)
	}
	defer rows.Close()

	var out []Discovery
	for rows.Next() {
		var d Discovery
		if err := rows.Scan(&d.PlayerID, &d.Key, &d.ResultCardID, &d.FirstFusedAt); err != nil {
			return nil, fmt.Errorf("scan discovery: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
