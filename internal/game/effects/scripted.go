// Package effects connects weapon on-hit hooks to the Lua scripting layer.
package effects

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/combat"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/scripting"
)

// Scripted runs weapon hooks as Lua functions. It implements
// combat.MeleeEffects.
//
// A Scripted binds the Manager's callbacks to itself, so one Manager serves
// exactly one Scripted. It is not safe for concurrent use.
type Scripted struct {
	mgr       *scripting.Manager
	namespace string
	logger    *zap.Logger

	cur *combat.Attack
}

// NewScripted wires mgr's engine callbacks to the attack being resolved.
//
// Precondition: mgr must be non-nil; namespace selects the arena VM and falls
// back to the global VM.
// Postcondition: Returns a Scripted whose callbacks are installed on mgr; a
// nil logger is replaced by zap.NewNop().
func NewScripted(mgr *scripting.Manager, namespace string, logger *zap.Logger) *Scripted {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scripted{mgr: mgr, namespace: namespace, logger: logger}
	mgr.GetCombatant = s.combatant
	mgr.HasStatus = s.hasStatus
	mgr.ApplyStatus = s.applyStatus
	mgr.ApplyDamage = s.applyDamage
	mgr.Heal = s.heal
	mgr.Say = s.say
	mgr.Random = s.random
	return s
}

// OnHit calls the Lua function named hook with (damage, did_hit, weapon_id).
//
// Precondition: att must be non-nil.
// Postcondition: Returns an error if hook is not defined; Lua runtime errors
// are logged by the Manager and not returned.
func (s *Scripted) OnHit(hook string, att *combat.Attack) error {
	if !s.mgr.HasHook(s.namespace, hook) {
		return fmt.Errorf("effects: hook %q is not defined", hook)
	}
	s.cur = att
	defer func() { s.cur = nil }()

	weaponID := ""
	if att.Weapon != nil {
		weaponID = att.Weapon.ID
	}
	s.logger.Debug("weapon hook",
		zap.String("hook", hook),
		zap.String("weapon", weaponID),
		zap.Int("damage", att.DamageDone),
	)
	_, err := s.mgr.CallHook(s.namespace, hook,
		lua.LNumber(att.DamageDone),
		lua.LBool(att.DidHit),
		lua.LString(weaponID),
	)
	return err
}

func (s *Scripted) resolve(role string) combat.Combatant {
	if s.cur == nil {
		return nil
	}
	switch role {
	case scripting.RoleAttacker:
		return s.cur.Attacker
	case scripting.RoleDefender:
		return s.cur.Defender
	}
	return nil
}

func (s *Scripted) combatant(role string) *scripting.CombatantInfo {
	c := s.resolve(role)
	if c == nil {
		return nil
	}
	return &scripting.CombatantInfo{
		ID:     c.ID(),
		Name:   c.Name(ruleset.DescThe),
		HP:     c.HP(),
		MaxHP:  c.MaxHP(),
		AC:     c.ArmourClass(),
		Player: c.IsPlayer(),
	}
}

func (s *Scripted) hasStatus(role, id string) bool {
	c := s.resolve(role)
	return c != nil && c.HasStatus(id)
}

func (s *Scripted) applyStatus(role, id string, degree, turns int) bool {
	c := s.resolve(role)
	if c == nil || !c.Alive() {
		return false
	}
	return c.ApplyStatus(id, degree, turns, s.cur.Attacker.ID())
}

// applyDamage routes defender damage through the attack so it is resisted
// and bleeds; damage to the attacker is self-inflicted and unresisted.
func (s *Scripted) applyDamage(role string, amount int, element string) (int, error) {
	if s.cur == nil {
		return 0, nil
	}
	el, err := ruleset.ParseElement(element)
	if err != nil {
		return 0, err
	}
	switch role {
	case scripting.RoleDefender:
		return s.cur.DealSpecial(amount, el), nil
	case scripting.RoleAttacker:
		a := s.cur.Attacker
		if !a.Alive() {
			return 0, nil
		}
		return a.Hurt(a.ID(), amount, el), nil
	}
	return 0, fmt.Errorf("unknown role %q", role)
}

func (s *Scripted) heal(role string, amount int) bool {
	c := s.resolve(role)
	return c != nil && c.Alive() && c.Heal(amount)
}

func (s *Scripted) say(msg string) {
	if s.cur != nil {
		s.cur.Say(msg)
	}
}

func (s *Scripted) random(n int) int {
	if s.cur == nil {
		return 0
	}
	return s.cur.Sim().Oracle.Random2(n)
}
