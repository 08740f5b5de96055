package combat

import (
	"strings"
)

// DamagePacket is one typed chunk of rolled damage
type DamagePacket struct {
	Amount     int
	DamageType string
}

// DamageTraits describes a defender's resistances, vulnerabilities, and
// immunities by damage type.
type DamageTraits struct {
	Resistances     []string
	Vulnerabilities []string
	Immunities      []string
}

func normalizeTraitSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		cleaned := strings.ToLower(strings.TrimSpace(t))
		if cleaned != "" {
			set[cleaned] = true
		}
	}
	return set
}

// ApplyDamage sums the packets after adjusting each for the defender's
// traits: immune types deal nothing, resisted types are halved rounding
// down, vulnerable types are doubled. A type both resisted and vulnerable
// passes through unadjusted. Negative packet amounts count as zero.
func ApplyDamage(packets []DamagePacket, traits DamageTraits) int {
	resist := normalizeTraitSet(traits.Resistances)
	vuln := normalizeTraitSet(traits.Vulnerabilities)
	immune := normalizeTraitSet(traits.Immunities)

	total := 0
	for _, packet := range packets {
		amount := packet.Amount
		if amount <= 0 {
			continue
		}
		damageType := strings.ToLower(strings.TrimSpace(packet.DamageType))
		if damageType != "" {
			if immune[damageType] {
				continue
			}
			resisted := resist[damageType]
			vulnerable := vuln[damageType]
			if resisted && !vulnerable {
				amount /= 2
			} else if vulnerable && !resisted {
				amount *= 2
			}
		}
		total += amount
	}
	return total
}
