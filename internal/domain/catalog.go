package domain

// Catalog is the fixed, ordered collection of game definitions. Ordering
// matters: daily-challenge selection indexes into it.
type Catalog struct {
	games []GameDefinition
	index map[string]int
}

func NewCatalog(games []GameDefinition) Catalog {
	index := make(map[string]int, len(games))
	for i, g := range games {
		index[g.ID] = i
	}
	return Catalog{games: games, index: index}
}

// Games returns the fixed game ordering. Callers must not mutate it.
func (c Catalog) Games() []GameDefinition {
	return c.games
}

func (c Catalog) Game(id string) (GameDefinition, bool) {
	i, ok := c.index[id]
	if !ok {
		return GameDefinition{}, false
	}
	return c.games[i], true
}

func (c Catalog) Len() int {
	return len(c.games)
}
