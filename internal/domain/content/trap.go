package content

import (
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// Trap is an immutable trap definition
type Trap struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	SaveDC      int      `yaml:"save_dc"`
	SaveAbility string   `yaml:"save_ability"`
	Damage      string   `yaml:"damage"`
	DamageType  string   `yaml:"damage_type"`
	Aliases     []string `yaml:"aliases"`
	Tags        []string `yaml:"tags"`
}

// Validate applies defaults for optional fields
func (t *Trap) Validate() error {
	if t.Name == "" {
		t.Name = t.Key
	}
	if t.SaveDC <= 0 {
		t.SaveDC = 10
	}
	if t.SaveAbility == "" {
		t.SaveAbility = "DEX"
	}
	if t.Damage != "" && t.SaveDC > 30 {
		return dnderr.InvalidArgumentf("trap %q has an impossible save DC %d", t.Key, t.SaveDC)
	}
	return nil
}
