package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mossvale/delve-bot-discord/internal/combat"
	"github.com/mossvale/delve-bot-discord/internal/dice"
	domcombat "github.com/mossvale/delve-bot-discord/internal/domain/combat"
	"github.com/mossvale/delve-bot-discord/internal/domain/content"
	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
	"github.com/mossvale/delve-bot-discord/internal/uuid"
)

// Spell is a declared player spell with a resource cost
type Spell struct {
	Name        string
	Level       int
	AttackBonus int
	Damage      string
	DamageType  string
	// Auto spells skip the attack roll and apply damage unconditionally
	Auto bool
}

// DeathSaveResult reports one death saving throw
type DeathSaveResult struct {
	Roll      int
	Success   bool
	Revived   bool
	Stable    bool
	Dead      bool
	Successes int
	Failures  int
}

// Service runs combat turns over a live combat state
type Service interface {
	// StartCombat rolls initiative for the party and monsters and activates combat
	StartCombat(party []*domcombat.CombatantState, monsters []*content.Monster) (*domcombat.State, error)

	// MonsterTurn executes the monster's declared multiattack or best single action
	MonsterTurn(state *domcombat.State, monster *domcombat.CombatantState) error

	// PlayerAttack resolves a weapon attack from a conscious player
	PlayerAttack(state *domcombat.State, playerID, targetID string) (*combat.AttackOutcome, error)

	// CastSpell spends the spell's slot and resolves its effect
	CastSpell(state *domcombat.State, playerID, targetID string, spell Spell) (*combat.AttackOutcome, error)

	// DeathSave rolls one death saving throw for a downed player
	DeathSave(state *domcombat.State, playerID string) (*DeathSaveResult, error)

	// ApplyDamage subtracts trait-adjusted damage from a combatant, honoring downed rules
	ApplyDamage(state *domcombat.State, target *domcombat.CombatantState, amount int, critical bool) int

	// CheckEnd resolves combat when one side has no one left to fight
	CheckEnd(state *domcombat.State) bool
}

type service struct {
	roller        dice.Roller
	uuidGenerator uuid.Generator
	log           *zap.Logger
	random        *rand.Rand
}

// ServiceConfig holds configuration for the encounter service
type ServiceConfig struct {
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.UUIDGenerator == nil {
		panic("uuid generator is required")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		roller:        cfg.Roller,
		uuidGenerator: cfg.UUIDGenerator,
		log:           log,
		random:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartCombat rolls initiative for every participant, orders the roster, and
// moves the state from forming to active. The order never changes afterwards.
func (s *service) StartCombat(party []*domcombat.CombatantState, monsters []*content.Monster) (*domcombat.State, error) {
	if len(party) == 0 {
		return nil, dnderr.InvalidArgument("combat requires at least one player")
	}
	if len(monsters) == 0 {
		return nil, dnderr.InvalidArgument("combat requires at least one monster")
	}

	state := domcombat.NewState()
	for _, member := range party {
		if err := s.rollCombatantInitiative(member, member.SaveBonus("DEX")); err != nil {
			return nil, err
		}
		state.Order = append(state.Order, member)
	}
	for _, monster := range monsters {
		combatant := s.newMonsterCombatant(monster)
		if err := s.rollCombatantInitiative(combatant, monster.AbilityModifier("DEX")); err != nil {
			return nil, err
		}
		state.Order = append(state.Order, combatant)
	}

	state.SortByInitiative()
	state.Phase = domcombat.PhaseActive
	state.AppendLog(fmt.Sprintf("Combat begins! %s acts first.", state.Current().Name))
	return state, nil
}

func (s *service) newMonsterCombatant(monster *content.Monster) *domcombat.CombatantState {
	return &domcombat.CombatantState{
		ID:              s.uuidGenerator.New(),
		Name:            monster.Name,
		IsPlayer:        false,
		MaxHP:           monster.HitPoints,
		CurrentHP:       monster.HitPoints,
		ArmorClass:      monster.ArmorClass,
		AttackBonus:     monster.AttackBonus,
		Damage:          monster.Damage,
		DamageType:      monster.DamageType,
		Resistances:     monster.Resistances,
		Vulnerabilities: monster.Vulnerabilities,
		Immunities:      monster.Immunities,
		Monster:         monster,
	}
}

func (s *service) rollCombatantInitiative(combatant *domcombat.CombatantState, bonus int) error {
	result, err := combat.RollInitiative(s.roller, combatant.Name, bonus)
	if err != nil {
		return err
	}
	combatant.InitiativeRoll = result.Roll
	combatant.InitiativeTotal = result.Total
	return nil
}

// MonsterTurn picks a random conscious player and executes the monster's
// multiattack when declared, otherwise a single action. Malformed actions are
// logged to the combat log and the turn ends without aborting the session.
func (s *service) MonsterTurn(state *domcombat.State, monster *domcombat.CombatantState) error {
	if state == nil || !state.Active() {
		return dnderr.Conflict("combat is not active")
	}
	if monster == nil || monster.IsPlayer {
		return dnderr.InvalidArgument("monster turn requires a monster combatant")
	}
	if monster.Defeated() {
		return nil
	}

	target := s.pickTarget(state, true)
	if target == nil {
		s.CheckEnd(state)
		return nil
	}

	def := monster.Monster
	if def == nil || len(def.Actions) == 0 {
		// No declared actions, fall back to the stat-line attack.
		s.executeMelee(state, monster, target, monster.Name+" attacks", monster.AttackBonus, monster.Damage, monster.DamageType)
		s.CheckEnd(state)
		return nil
	}

	if len(def.Multiattack) > 0 {
		state.AppendLog(fmt.Sprintf("%s unleashes a flurry of attacks!", monster.Name))
		for _, ref := range def.Multiattack {
			action := def.FindAction(ref.Ref)
			if action == nil {
				s.logMalformed(state, monster.Name, ref.Ref, "unknown multiattack reference")
				continue
			}
			count := ref.Count
			if count < 1 {
				count = 1
			}
			for i := 0; i < count; i++ {
				if target.Defeated() {
					target = s.pickTarget(state, true)
					if target == nil {
						// Nobody left to retarget, the flurry ends early.
						s.CheckEnd(state)
						return nil
					}
				}
				s.executeAction(state, monster, target, action)
			}
		}
	} else {
		s.executeAction(state, monster, target, &def.Actions[0])
	}

	s.CheckEnd(state)
	return nil
}

func (s *service) executeAction(state *domcombat.State, attacker, target *domcombat.CombatantState, action *content.MonsterAction) {
	switch action.Kind {
	case content.ActionKindMelee:
		label := fmt.Sprintf("%s uses %s", attacker.Name, action.Name)
		s.executeMelee(state, attacker, target, label, action.AttackBonus, action.Damage, action.DamageType)
	case content.ActionKindSave:
		s.executeSave(state, attacker, target, action)
	case content.ActionKindAuto:
		s.executeAuto(state, attacker, target, action)
	default:
		s.logMalformed(state, attacker.Name, action.Name, "unknown action kind")
	}
}

func (s *service) executeMelee(state *domcombat.State, attacker, target *domcombat.CombatantState, label string, bonus int, damage, damageType string) {
	attack := combat.Attack{
		Name:             label,
		AttackBonus:      bonus,
		DamageExpression: damage,
		DamageType:       damageType,
		CriticalDouble:   true,
	}
	outcome, err := combat.ResolveAttack(s.roller, attack, target.ArmorClass, traitsOf(target))
	if err != nil {
		s.logMalformed(state, attacker.Name, label, err.Error())
		return
	}
	if !outcome.Roll.Hits {
		state.AppendLog(fmt.Sprintf("%s misses %s (%d vs AC %d).", label, target.Name, outcome.Roll.Total, target.ArmorClass))
		return
	}
	dealt := s.ApplyDamage(state, target, outcome.Damage, outcome.Roll.IsCriticalHit)
	if outcome.Roll.IsCriticalHit {
		state.AppendLog(fmt.Sprintf("%s CRITS %s for %d damage!", label, target.Name, dealt))
	} else {
		state.AppendLog(fmt.Sprintf("%s hits %s for %d damage.", label, target.Name, dealt))
	}
}

func (s *service) executeSave(state *domcombat.State, attacker, target *domcombat.CombatantState, action *content.MonsterAction) {
	save, err := combat.SavingThrow(s.roller, target.SaveBonus(action.SaveAbility), action.SaveDC, combat.Neutral)
	if err != nil {
		s.logMalformed(state, attacker.Name, action.Name, err.Error())
		return
	}

	amount := 0
	if action.Damage != "" {
		roll, rollErr := dice.RollExpression(s.roller, action.Damage)
		if rollErr != nil {
			s.logMalformed(state, attacker.Name, action.Name, rollErr.Error())
			return
		}
		amount = combat.ApplyDamage([]combat.DamagePacket{{Amount: roll.Total, DamageType: action.DamageType}}, traitsOf(target))
	}

	if save.Success {
		if action.HalfOnSuccess && amount > 0 {
			dealt := s.ApplyDamage(state, target, amount/2, false)
			state.AppendLog(fmt.Sprintf("%s saves against %s's %s, taking %d damage.", target.Name, attacker.Name, action.Name, dealt))
		} else {
			state.AppendLog(fmt.Sprintf("%s saves against %s's %s.", target.Name, attacker.Name, action.Name))
		}
		return
	}

	dealt := 0
	if amount > 0 {
		dealt = s.ApplyDamage(state, target, amount, false)
	}
	for _, condition := range action.FailConditions {
		target.AddCondition(condition)
	}
	state.AppendLog(fmt.Sprintf("%s fails the save against %s's %s, taking %d damage.", target.Name, attacker.Name, action.Name, dealt))
}

func (s *service) executeAuto(state *domcombat.State, attacker, target *domcombat.CombatantState, action *content.MonsterAction) {
	dealt := 0
	if action.Damage != "" {
		roll, err := dice.RollExpression(s.roller, action.Damage)
		if err != nil {
			s.logMalformed(state, attacker.Name, action.Name, err.Error())
			return
		}
		adjusted := combat.ApplyDamage([]combat.DamagePacket{{Amount: roll.Total, DamageType: action.DamageType}}, traitsOf(target))
		dealt = s.ApplyDamage(state, target, adjusted, false)
	}
	for _, condition := range action.Conditions {
		target.AddCondition(condition)
	}
	state.AppendLog(fmt.Sprintf("%s's %s hits %s automatically for %d damage.", attacker.Name, action.Name, target.Name, dealt))
}

// PlayerAttack resolves a weapon attack with the player's stat line
func (s *service) PlayerAttack(state *domcombat.State, playerID, targetID string) (*combat.AttackOutcome, error) {
	player, target, err := s.resolveActors(state, playerID, targetID)
	if err != nil {
		return nil, err
	}
	attack := combat.Attack{
		Name:             player.Name,
		AttackBonus:      player.AttackBonus,
		DamageExpression: player.Damage,
		DamageType:       player.DamageType,
		CriticalDouble:   true,
	}
	outcome, err := combat.ResolveAttack(s.roller, attack, target.ArmorClass, traitsOf(target))
	if err != nil {
		return nil, err
	}
	if outcome.Roll.Hits {
		dealt := s.ApplyDamage(state, target, outcome.Damage, outcome.Roll.IsCriticalHit)
		state.AppendLog(fmt.Sprintf("%s hits %s for %d damage.", player.Name, target.Name, dealt))
	} else {
		state.AppendLog(fmt.Sprintf("%s misses %s.", player.Name, target.Name))
	}
	s.CheckEnd(state)
	return outcome, nil
}

// CastSpell spends one slot of the spell's level before resolving. Auto
// spells skip the attack roll and land unconditionally.
func (s *service) CastSpell(state *domcombat.State, playerID, targetID string, spell Spell) (*combat.AttackOutcome, error) {
	player, target, err := s.resolveActors(state, playerID, targetID)
	if err != nil {
		return nil, err
	}
	if spell.Level > 0 {
		if err := player.UseSpellSlot(spell.Level, 1); err != nil {
			return nil, err
		}
	}

	if spell.Auto {
		roll, rollErr := dice.RollExpression(s.roller, spell.Damage)
		if rollErr != nil {
			return nil, rollErr
		}
		adjusted := combat.ApplyDamage([]combat.DamagePacket{{Amount: roll.Total, DamageType: spell.DamageType}}, traitsOf(target))
		dealt := s.ApplyDamage(state, target, adjusted, false)
		state.AppendLog(fmt.Sprintf("%s's %s strikes %s unerringly for %d damage.", player.Name, spell.Name, target.Name, dealt))
		s.CheckEnd(state)
		return &combat.AttackOutcome{
			Attack: combat.Attack{Name: spell.Name, DamageType: spell.DamageType},
			Roll:   combat.AttackRollResult{Hits: true},
			Damage: dealt,
		}, nil
	}

	attack := combat.Attack{
		Name:             spell.Name,
		AttackBonus:      spell.AttackBonus,
		DamageExpression: spell.Damage,
		DamageType:       spell.DamageType,
		CriticalDouble:   true,
	}
	outcome, err := combat.ResolveAttack(s.roller, attack, target.ArmorClass, traitsOf(target))
	if err != nil {
		return nil, err
	}
	if outcome.Roll.Hits {
		dealt := s.ApplyDamage(state, target, outcome.Damage, outcome.Roll.IsCriticalHit)
		state.AppendLog(fmt.Sprintf("%s's %s hits %s for %d damage.", player.Name, spell.Name, target.Name, dealt))
	} else {
		state.AppendLog(fmt.Sprintf("%s's %s misses %s.", player.Name, spell.Name, target.Name))
	}
	s.CheckEnd(state)
	return outcome, nil
}

// DeathSave rolls one death saving throw. A natural 20 brings the player back
// up at 1 HP; a natural 1 counts as two failures.
func (s *service) DeathSave(state *domcombat.State, playerID string) (*DeathSaveResult, error) {
	if state == nil || !state.Active() {
		return nil, dnderr.Conflict("combat is not active")
	}
	player := state.FindCombatant(playerID)
	if player == nil {
		return nil, dnderr.NotFound("combatant not found")
	}
	if !player.IsPlayer {
		return nil, dnderr.InvalidArgument("only players make death saves")
	}
	if player.Conscious() {
		return nil, dnderr.Conflict("combatant is conscious")
	}
	if player.Stable || player.IsDead() {
		return nil, dnderr.Conflict("combatant no longer makes death saves")
	}

	roll, err := s.roller.Roll(1, 20, 0)
	if err != nil {
		return nil, err
	}

	result := &DeathSaveResult{Roll: roll.Total}
	switch {
	case roll.Total == 20:
		player.CurrentHP = 1
		player.DeathSaveSuccesses = 0
		player.DeathSaveFailures = 0
		result.Success = true
		result.Revived = true
		state.AppendLog(fmt.Sprintf("%s surges back to consciousness!", player.Name))
	case roll.Total >= 10:
		player.DeathSaveSuccesses++
		result.Success = true
		if player.DeathSaveSuccesses >= 3 {
			player.Stable = true
			result.Stable = true
			state.AppendLog(fmt.Sprintf("%s stabilizes.", player.Name))
		} else {
			state.AppendLog(fmt.Sprintf("%s holds on (death save success %d/3).", player.Name, player.DeathSaveSuccesses))
		}
	default:
		failures := 1
		if roll.Total == 1 {
			failures = 2
		}
		player.DeathSaveFailures += failures
		if player.DeathSaveFailures >= 3 {
			result.Dead = true
			state.AppendLog(fmt.Sprintf("%s succumbs to their wounds.", player.Name))
		} else {
			state.AppendLog(fmt.Sprintf("%s slips closer to death (failure %d/3).", player.Name, player.DeathSaveFailures))
		}
	}
	result.Successes = player.DeathSaveSuccesses
	result.Failures = player.DeathSaveFailures

	s.CheckEnd(state)
	return result, nil
}

// ApplyDamage subtracts damage already adjusted for the target's traits.
// Callers resolve resistances exactly once, either through ResolveAttack or
// through combat.ApplyDamage, before handing the amount here. A player already
// at zero hit points takes a death save failure instead, two when the damage
// is from a critical hit.
func (s *service) ApplyDamage(state *domcombat.State, target *domcombat.CombatantState, amount int, critical bool) int {
	if target.IsPlayer && !target.Conscious() && !target.IsDead() {
		failures := 1
		if critical {
			failures = 2
		}
		target.DeathSaveFailures += failures
		target.Stable = false
		if target.IsDead() {
			state.AppendLog(fmt.Sprintf("%s is struck while down and dies.", target.Name))
		} else {
			state.AppendLog(fmt.Sprintf("%s is struck while down (failure %d/3).", target.Name, target.DeathSaveFailures))
		}
		return 0
	}

	dealt := amount
	if dealt < 0 {
		dealt = 0
	}
	target.CurrentHP -= dealt
	if target.CurrentHP <= 0 {
		target.CurrentHP = 0
		if target.IsPlayer {
			state.AppendLog(fmt.Sprintf("%s falls unconscious!", target.Name))
		} else {
			state.AppendLog(fmt.Sprintf("%s is slain!", target.Name))
		}
	}
	return dealt
}

// CheckEnd resolves combat when either side has nobody left standing
func (s *service) CheckEnd(state *domcombat.State) bool {
	if state == nil || state.Phase == domcombat.PhaseResolved {
		return true
	}
	if state.AnyPlayersAlive() && state.AnyMonstersAlive() {
		return false
	}
	state.Phase = domcombat.PhaseResolved
	if state.AnyPlayersAlive() {
		state.AppendLog("The party is victorious!")
	} else {
		state.AppendLog("The party has fallen.")
	}
	return true
}

func (s *service) resolveActors(state *domcombat.State, playerID, targetID string) (*domcombat.CombatantState, *domcombat.CombatantState, error) {
	if state == nil || !state.Active() {
		return nil, nil, dnderr.Conflict("combat is not active")
	}
	player := state.FindCombatant(playerID)
	if player == nil {
		return nil, nil, dnderr.NotFound("combatant not found")
	}
	if !player.IsPlayer {
		return nil, nil, dnderr.InvalidArgument("combatant is not a player")
	}
	if !player.Conscious() {
		return nil, nil, dnderr.Conflict("combatant is unconscious")
	}
	target := state.FindCombatant(targetID)
	if target == nil {
		return nil, nil, dnderr.NotFound("target not found")
	}
	if target.Defeated() {
		return nil, nil, dnderr.Conflict("target is already down")
	}
	return player, target, nil
}

// pickTarget chooses a random conscious combatant on the requested side
func (s *service) pickTarget(state *domcombat.State, players bool) *domcombat.CombatantState {
	var eligible []*domcombat.CombatantState
	for _, combatant := range state.Order {
		if combatant.IsPlayer == players && combatant.Conscious() {
			eligible = append(eligible, combatant)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible[s.random.Intn(len(eligible))]
}

func (s *service) logMalformed(state *domcombat.State, actor, action, reason string) {
	s.log.Warn("malformed monster action",
		zap.String("actor", actor),
		zap.String("action", action),
		zap.String("reason", reason))
	state.AppendLog(fmt.Sprintf("%s fumbles with %s and loses the opportunity.", actor, action))
}

func traitsOf(target *domcombat.CombatantState) combat.DamageTraits {
	return combat.DamageTraits{
		Resistances:     target.Resistances,
		Vulnerabilities: target.Vulnerabilities,
		Immunities:      target.Immunities,
	}
}
