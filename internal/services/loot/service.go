package loot

//go:generate mockgen -destination=mock/mock_service.go -package=mockloot -source=service.go

import (
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
)

// rarityGold maps item rarity to its gold value when converted to coin
var rarityGold = map[string]int{
	"common":    10,
	"uncommon":  50,
	"rare":      250,
	"very_rare": 1000,
	"legendary": 5000,
	"artifact":  20000,
}

// Share is one party member's cut of a room's rewards
type Share struct {
	UserID string
	Items  []*content.Item
	Gold   int
}

// Allocation is the full distribution of a treasure haul
type Allocation struct {
	Shares []Share
	// NextCursor is the round-robin position for the next haul
	NextCursor int
}

// Service values and distributes treasure
type Service interface {
	// ItemValue returns the gold value of an item by its rarity
	ItemValue(item *content.Item) int

	// SplitGold divides gold evenly, remainder to the earliest members
	SplitGold(amount int, order []string) (map[string]int, error)

	// AllocateLoot hands out items round-robin from the cursor and splits
	// their combined value as gold between members who received nothing
	AllocateLoot(items []*content.Item, order []string, cursor int) (*Allocation, error)

	// TrapReward is the payout for disarming a trap of the given DC
	TrapReward(trap *content.Trap) int
}

type service struct{}

// NewService creates a new loot service
func NewService() Service {
	return &service{}
}

// ItemValue returns the gold value of the item's rarity, zero for unknown
func (s *service) ItemValue(item *content.Item) int {
	if item == nil {
		return 0
	}
	return rarityGold[item.Rarity]
}

// SplitGold divides amount across the members in order. The remainder goes
// one coin at a time to the earliest members.
func (s *service) SplitGold(amount int, order []string) (map[string]int, error) {
	if len(order) == 0 {
		return nil, dnderr.InvalidArgument("cannot split gold with no recipients")
	}
	if amount < 0 {
		return nil, dnderr.InvalidArgument("cannot split a negative amount")
	}
	shares := make(map[string]int, len(order))
	base := amount / len(order)
	remainder := amount % len(order)
	for i, userID := range order {
		share := base
		if i < remainder {
			share++
		}
		shares[userID] = share
	}
	return shares, nil
}

// AllocateLoot assigns items round-robin starting at the cursor so treasure
// rotates fairly across rooms. The haul's total value is also split as gold
// so members who drew no item still profit.
func (s *service) AllocateLoot(items []*content.Item, order []string, cursor int) (*Allocation, error) {
	if len(order) == 0 {
		return nil, dnderr.InvalidArgument("cannot allocate loot with no party members")
	}
	if cursor < 0 {
		cursor = 0
	}
	cursor %= len(order)

	byUser := make(map[string]*Share, len(order))
	allocation := &Allocation{Shares: make([]Share, 0, len(order))}
	for _, userID := range order {
		allocation.Shares = append(allocation.Shares, Share{UserID: userID})
		byUser[userID] = &allocation.Shares[len(allocation.Shares)-1]
	}

	totalValue := 0
	for _, item := range items {
		recipient := order[cursor%len(order)]
		byUser[recipient].Items = append(byUser[recipient].Items, item)
		totalValue += s.ItemValue(item)
		cursor++
	}
	allocation.NextCursor = cursor % len(order)

	goldShares, err := s.SplitGold(totalValue, order)
	if err != nil {
		return nil, err
	}
	for userID, gold := range goldShares {
		byUser[userID].Gold = gold
	}
	return allocation, nil
}

// TrapReward pays out proportionally to how hard the trap was to disarm
func (s *service) TrapReward(trap *content.Trap) int {
	if trap == nil {
		return 0
	}
	dc := trap.SaveDC
	if dc < 5 {
		dc = 5
	}
	return dc * 5
}
