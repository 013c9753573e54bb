package utils

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogSeed is the on-disk format for seeding shop items at startup:
// a JSON array of entries, each bound to a guild.
type CatalogSeed struct {
	GuildID     int64  `json:"guild_id"`
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// LoadCatalogSeed reads a seed file. A missing path returns an empty slice so
// the seed file stays optional.
func LoadCatalogSeed(path string) ([]CatalogSeed, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	var seeds []CatalogSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	return seeds, nil
}
