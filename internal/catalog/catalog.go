// Package catalog ships the built-in game content. The JSON is embedded so
// the engine works with no external storage; a database-backed loader can
// replace it when configured.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cyberaware/internal/domain"
)

//go:embed games.json
var gamesJSON []byte

// Embedded decodes the built-in game definitions in their fixed order.
func Embedded() ([]domain.GameDefinition, error) {
	var games []domain.GameDefinition
	if err := json.Unmarshal(gamesJSON, &games); err != nil {
		return nil, fmt.Errorf("decode embedded games: %w", err)
	}
	return games, nil
}

// MustEmbedded is for wiring paths where broken embedded content is a
// programming error, not a runtime condition.
func MustEmbedded() []domain.GameDefinition {
	games, err := Embedded()
	if err != nil {
		panic(err)
	}
	return games
}
