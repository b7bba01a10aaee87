package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"cyberaware/internal/domain"
)

// GameLoader loads game definitions from Postgres. Each game is one JSONB
// row; position preserves the catalog's fixed ordering.
type GameLoader struct {
	pool *pgxpool.Pool
}

func NewGameLoader(pool *pgxpool.Pool) *GameLoader {
	return &GameLoader{pool: pool}
}

func (l *GameLoader) LoadGames(ctx context.Context) ([]domain.GameDefinition, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM games ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	defer rows.Close()

	var games []domain.GameDefinition
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		var game domain.GameDefinition
		if err := json.Unmarshal(raw, &game); err != nil {
			return nil, fmt.Errorf("unmarshal game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}
	return games, nil
}
