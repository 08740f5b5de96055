package combat

import (
	"sort"
)

// Phase is the lifecycle of a combat session
type Phase string

const (
	PhaseForming  Phase = "forming"
	PhaseActive   Phase = "active"
	PhaseResolved Phase = "resolved"
)

// maxLogEntries caps the combat log handed to the presentation layer
const maxLogEntries = 12

// State is one live combat session. The roster order is fixed when combat
// starts and never reordered afterwards.
type State struct {
	Order     []*CombatantState `json:"order"`
	TurnIndex int               `json:"turn_index"`
	Round     int               `json:"round"`
	Phase     Phase             `json:"phase"`
	Log       []string          `json:"log"`
}

// NewState creates a forming combat session
func NewState() *State {
	return &State{Phase: PhaseForming, Round: 1}
}

// SortByInitiative orders the roster by initiative total descending, breaking
// ties by the raw die descending. Order among full ties is stable.
func (s *State) SortByInitiative() {
	sort.SliceStable(s.Order, func(i, j int) bool {
		if s.Order[i].InitiativeTotal != s.Order[j].InitiativeTotal {
			return s.Order[i].InitiativeTotal > s.Order[j].InitiativeTotal
		}
		return s.Order[i].InitiativeRoll > s.Order[j].InitiativeRoll
	})
}

// Active reports whether combat is still running
func (s *State) Active() bool {
	return s.Phase == PhaseActive
}

// Current returns the combatant whose turn it is
func (s *State) Current() *CombatantState {
	if len(s.Order) == 0 {
		return nil
	}
	return s.Order[s.TurnIndex]
}

// AdvanceTurn moves to the next undefeated combatant, bumping the round when
// the order wraps. Returns nil when nobody can act.
func (s *State) AdvanceTurn() *CombatantState {
	if len(s.Order) == 0 {
		return nil
	}
	for range s.Order {
		s.TurnIndex = (s.TurnIndex + 1) % len(s.Order)
		if s.TurnIndex == 0 {
			s.Round++
		}
		combatant := s.Order[s.TurnIndex]
		if !combatant.Defeated() {
			return combatant
		}
	}
	return nil
}

// Living returns undefeated combatants, optionally filtered by side
func (s *State) Living(players *bool) []*CombatantState {
	var living []*CombatantState
	for _, combatant := range s.Order {
		if combatant.Defeated() {
			continue
		}
		if players == nil || combatant.IsPlayer == *players {
			living = append(living, combatant)
		}
	}
	return living
}

// AnyPlayersAlive reports whether any player can still fight
func (s *State) AnyPlayersAlive() bool {
	for _, combatant := range s.Order {
		if combatant.IsPlayer && !combatant.Defeated() {
			return true
		}
	}
	return false
}

// AnyMonstersAlive reports whether any monster can still fight
func (s *State) AnyMonstersAlive() bool {
	for _, combatant := range s.Order {
		if !combatant.IsPlayer && !combatant.Defeated() {
			return true
		}
	}
	return false
}

// AppendLog records a combat event, trimming the visible window
func (s *State) AppendLog(entry string) {
	s.Log = append(s.Log, entry)
	if len(s.Log) > maxLogEntries {
		s.Log = s.Log[len(s.Log)-maxLogEntries:]
	}
}

// FindCombatant locates a roster member by id
func (s *State) FindCombatant(id string) *CombatantState {
	for _, combatant := range s.Order {
		if combatant.ID == id {
			return combatant
		}
	}
	return nil
}
