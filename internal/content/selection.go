package content

import (
	"math"
	"math/rand"

	"github.com/mossvale/delve-bot-discord/internal/domain/content"
)

// weightEpsilon keeps heavily biased draws from collapsing to zero weight
const weightEpsilon = 1e-6

// Band is an inclusive numeric range over a selection metric
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether value falls inside the band
func (b Band) Contains(value float64) bool {
	return value >= b.Min && value <= b.Max
}

// distance is zero inside the band, otherwise the gap to the nearest edge
func (b Band) distance(value float64) float64 {
	if value < b.Min {
		return b.Min - value
	}
	if value > b.Max {
		return value - b.Max
	}
	return 0
}

// WeightedDraw picks count entries (with replacement) from population,
// weighting each entry by (max(metric,0)+1)^bias. Entries outside the band
// are filtered out first; when the band excludes everything the draw falls
// back to the entries nearest the band instead of failing, so sparse content
// still yields a result.
func WeightedDraw[T any](rng *rand.Rand, population []T, metric func(T) float64, band Band, count int, bias float64) []T {
	if len(population) == 0 || count <= 0 {
		return nil
	}

	eligible := make([]T, 0, len(population))
	for _, entry := range population {
		if band.Contains(metric(entry)) {
			eligible = append(eligible, entry)
		}
	}
	if len(eligible) == 0 {
		eligible = nearestToBand(population, metric, band)
	}

	weights := make([]float64, len(eligible))
	total := 0.0
	for i, entry := range eligible {
		base := math.Max(metric(entry), 0) + 1
		weight := math.Pow(base, bias)
		if weight < weightEpsilon {
			weight = weightEpsilon
		}
		weights[i] = weight
		total += weight
	}

	picked := make([]T, 0, count)
	for n := 0; n < count; n++ {
		target := rng.Float64() * total
		index := len(eligible) - 1
		for i, weight := range weights {
			target -= weight
			if target < 0 {
				index = i
				break
			}
		}
		picked = append(picked, eligible[index])
	}
	return picked
}

// nearestToBand returns the entries whose metric is closest to the band
func nearestToBand[T any](population []T, metric func(T) float64, band Band) []T {
	best := math.Inf(1)
	for _, entry := range population {
		if d := band.distance(metric(entry)); d < best {
			best = d
		}
	}
	nearest := make([]T, 0, len(population))
	for _, entry := range population {
		if band.distance(metric(entry)) == best {
			nearest = append(nearest, entry)
		}
	}
	return nearest
}

// RandomMonsters draws monsters by challenge rating band
func RandomMonsters(rng *rand.Rand, population []*content.Monster, count int, band Band, bias float64) []*content.Monster {
	return WeightedDraw(rng, population, func(m *content.Monster) float64 {
		return m.Challenge
	}, band, count, bias)
}

// RandomTraps draws traps by save DC band
func RandomTraps(rng *rand.Rand, population []*content.Trap, count int, band Band, bias float64) []*content.Trap {
	return WeightedDraw(rng, population, func(t *content.Trap) float64 {
		return float64(t.SaveDC)
	}, band, count, bias)
}

// RandomLoot draws items by rarity rank band
func RandomLoot(rng *rand.Rand, population []*content.Item, count int, band Band, bias float64) []*content.Item {
	return WeightedDraw(rng, population, func(i *content.Item) float64 {
		return float64(i.RarityRank())
	}, band, count, bias)
}
