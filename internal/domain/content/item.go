package content

import (
	"strings"
)

// Item is an immutable loot definition
type Item struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Rarity      string   `yaml:"rarity"`
	Description string   `yaml:"description"`
	Aliases     []string `yaml:"aliases"`
	Tags        []string `yaml:"tags"`
}

// Rarity ranks used for loot band selection and reward values
var rarityRanks = map[string]int{
	"common":    0,
	"uncommon":  1,
	"rare":      2,
	"very rare": 3,
	"legendary": 4,
	"artifact":  5,
}

// Validate applies defaults for optional fields
func (i *Item) Validate() error {
	if i.Name == "" {
		i.Name = i.Key
	}
	if i.Rarity == "" {
		i.Rarity = "Common"
	}
	return nil
}

// RarityRank returns the numeric rank of the item's rarity, 0 for unknown
func (i *Item) RarityRank() int {
	return rarityRanks[strings.ToLower(i.Rarity)]
}
