package dungeon

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mossvale/delve-bot-discord/internal/content"
	domcontent "github.com/mossvale/delve-bot-discord/internal/domain/content"
	"github.com/mossvale/delve-bot-discord/internal/domain/exploration"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// Corridor flavor pools. Fixed so a seed always reproduces the same text.
var (
	corridorShapes = []string{
		"a narrow passage",
		"a crumbling archway",
		"a winding stair",
		"a low tunnel",
		"a collapsed gallery",
		"a rough-hewn corridor",
	}
	corridorDetails = []string{
		"slick with moisture",
		"littered with old bones",
		"echoing with distant sounds",
		"choked with cobwebs",
		"lit by guttering torchlight",
		"scored by ancient claw marks",
	}
)

// Generate builds a dungeon from a theme. It is pure in its arguments: the
// same theme, seed, difficulty, and room count always produce an identical
// dungeon.
func Generate(theme *domcontent.Theme, seed int64, difficulty string, roomCount int) (*exploration.Dungeon, error) {
	if theme == nil {
		return nil, dnderr.InvalidArgument("theme is required")
	}
	if roomCount <= 0 {
		return nil, dnderr.InvalidArgumentf("room count must be positive, got %d", roomCount)
	}
	profile, err := ProfileFor(difficulty)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))

	dungeon := &exploration.Dungeon{
		Name:       fmt.Sprintf("%s (%s)", theme.Name, profile.Tier),
		Seed:       seed,
		Difficulty: profile.Tier,
		ThemeKey:   theme.Key,
		Rooms:      make([]exploration.Room, 0, roomCount),
	}

	for id := 0; id < roomCount; id++ {
		template := theme.RandomRoomTemplate(rng)
		kind := rollEncounterKind(rng, theme, template)
		encounter := synthesizeEncounter(rng, theme, profile, kind)

		room := exploration.Room{
			ID:          id,
			Name:        template.Name,
			Description: template.Description,
			Encounter:   encounter,
		}
		if id > 0 {
			corridor := exploration.Corridor{
				FromRoom:    id - 1,
				ToRoom:      id,
				Description: corridorDescription(rng),
			}
			dungeon.Corridors = append(dungeon.Corridors, corridor)
			dungeon.Rooms[id-1].Exits = append(dungeon.Rooms[id-1].Exits, id)
			room.Exits = append(room.Exits, id-1)
		}
		dungeon.Rooms = append(dungeon.Rooms, room)
	}

	return dungeon, nil
}

// rollEncounterKind uses the template's weight override when it has one,
// otherwise the theme's default table.
func rollEncounterKind(rng *rand.Rand, theme *domcontent.Theme, template domcontent.RoomTemplate) exploration.EncounterKind {
	if len(template.EncounterWeights) > 0 {
		if table, err := domcontent.NewEncounterTable(template.EncounterWeights); err == nil {
			return exploration.EncounterKind(table.Roll(rng))
		}
	}
	return exploration.EncounterKind(theme.EncounterTable.Roll(rng))
}

func synthesizeEncounter(rng *rand.Rand, theme *domcontent.Theme, profile DifficultyProfile, kind exploration.EncounterKind) exploration.EncounterResult {
	switch kind {
	case exploration.EncounterKindCombat:
		count := profile.MonsterCount.Roll(rng.Float64())
		monsters := content.RandomMonsters(rng, theme.Monsters, count, profile.Challenge, 1)
		if len(monsters) == 0 {
			return emptyEncounter("The room is eerily quiet.")
		}
		return exploration.EncounterResult{
			Kind:     exploration.EncounterKindCombat,
			Summary:  summarizeNames("Lurking here:", monsterNames(monsters)),
			Monsters: monsters,
		}
	case exploration.EncounterKindTrap:
		count := profile.TrapCount.Roll(rng.Float64())
		traps := content.RandomTraps(rng, theme.Traps, count, profile.TrapDC, 1)
		if len(traps) == 0 {
			return emptyEncounter("Nothing dangerous catches your eye.")
		}
		return exploration.EncounterResult{
			Kind:    exploration.EncounterKindTrap,
			Summary: "Something about this room feels wrong.",
			Traps:   traps,
		}
	case exploration.EncounterKindTreasure:
		count := profile.LootCount.Roll(rng.Float64())
		loot := content.RandomLoot(rng, theme.Loot, count, profile.LootRarity, profile.LootBias)
		if len(loot) == 0 {
			return emptyEncounter("Whatever was here was looted long ago.")
		}
		return exploration.EncounterResult{
			Kind:    exploration.EncounterKindTreasure,
			Summary: summarizeNames("Glinting in the gloom:", itemNames(loot)),
			Loot:    loot,
		}
	case exploration.EncounterKindEmpty:
		return emptyEncounter("The room is empty.")
	default:
		return exploration.EncounterResult{
			Kind:    exploration.EncounterKindOther,
			Summary: "Something unusual lingers here.",
		}
	}
}

func emptyEncounter(summary string) exploration.EncounterResult {
	return exploration.EncounterResult{Kind: exploration.EncounterKindEmpty, Summary: summary}
}

func corridorDescription(rng *rand.Rand) string {
	shape := corridorShapes[rng.Intn(len(corridorShapes))]
	detail := corridorDetails[rng.Intn(len(corridorDetails))]
	return fmt.Sprintf("You follow %s %s.", shape, detail)
}

func monsterNames(monsters []*domcontent.Monster) []string {
	names := make([]string, len(monsters))
	for i, m := range monsters {
		names[i] = m.Name
	}
	return names
}

func itemNames(items []*domcontent.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func summarizeNames(prefix string, names []string) string {
	return prefix + " " + strings.Join(names, ", ")
}
