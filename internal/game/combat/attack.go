package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/inventory"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// Phase is one state of the attack state machine.
type Phase int

const (
	PhaseAttempted Phase = iota
	PhaseDodged
	PhaseBlocked
	PhaseHit
	PhaseDamaged
	PhaseKilled
	PhaseAux
	PhaseEnd
)

var phaseNames = []string{"attempted", "dodged", "blocked", "hit", "damaged", "killed", "aux", "end"}

func (p Phase) String() string {
	if int(p) < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// PhaseResult is what a phase handler tells the machine to do next.
type PhaseResult int

const (
	// Continue advances to the next phase.
	Continue PhaseResult = iota
	// EndCombat skips straight to End.
	EndCombat
	// Cancelled means the attack never happened; End does not run.
	Cancelled
)

func (r PhaseResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case EndCombat:
		return "end_combat"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase_result(%d)", int(r))
	}
}

// strategy supplies the hooks that differ between player and monster
// attackers. The phase machine itself is shared.
type strategy struct {
	kind string
	// toHit returns the attacker's accuracy against the defender.
	toHit func(a *Attack, random bool) int
	// damage runs the attacker's damage pipeline up to and including AC.
	damage func(a *Attack) int
	// payCost charges the attacker the time or energy of the swing.
	payCost func(a *Attack)
	// fumbleOneIn is the odds of fumbling while floundering in water.
	fumbleOneIn func(a *Attack) int
	announceHit func(a *Attack)
	announceMiss func(a *Attack)
	// hitEffects runs after damage is known and before it is dealt.
	hitEffects func(a *Attack) PhaseResult
	// damagedEffects runs after physical damage was dealt.
	damagedEffects func(a *Attack) PhaseResult
	// aux runs the follow-up unarmed attacks; nil when there are none.
	aux func(a *Attack)
}

// Attack is one melee attack instance. It lives for a single swing and is
// never reused.
type Attack struct {
	sim *Sim

	Attacker Combatant
	Defender Combatant
	// AttackNumber is the monster attack slot, 0 for the player.
	AttackNumber int
	// EffectiveAttackNumber counts only the slots that really attacked.
	EffectiveAttackNumber int
	// Weapon is nil for unarmed or natural attacks.
	Weapon         *inventory.WeaponDef
	Brand          ruleset.Brand
	AttackType     ruleset.AttackType
	Flavour        ruleset.Flavour
	AttackDamage   int
	AttackPosition world.Coord

	ToHit         int
	EvasionMargin int
	DamageDone    int

	SpecialDamage        int
	SpecialDamageMessage string
	SpecialDamageElement ruleset.Element
	// SpecialDealt totals the special damage the defender actually took.
	SpecialDealt int
	// AuxDealt totals the physical damage of the player's aux attacks.
	AuxDealt int

	DidHit          bool
	AttackOccurred  bool
	PerceivedAttack bool
	CancelAttack    bool
	NeedsMessage    bool
	StabAttempt     bool
	StabBonus       int
	Cleaving        bool
	FakeChaosAttack bool
	// Simu marks a dry run whose narration nobody sees.
	Simu bool

	strat       *strategy
	wpnSkill    ruleset.Skill
	noiseFactor int

	damageCalculated bool
	killed           bool
	ended            bool
	shroudBroken     bool
	cleaveTargets    []Combatant
	trace            []Phase
}

// newAttack prepares one attack instance.
//
// Precondition: sim, attacker and defender must be non-nil.
func newAttack(sim *Sim, attacker, defender Combatant, number, effective int) *Attack {
	a := &Attack{
		sim:                   sim,
		Attacker:              attacker,
		Defender:              defender,
		AttackNumber:          number,
		EffectiveAttackNumber: effective,
		AttackPosition:        attacker.Pos(),
		AttackType:            ruleset.AttackHit,
		NeedsMessage:          true,
		noiseFactor:           100,
		wpnSkill:              ruleset.SkillUnarmedCombat,
	}
	if p, ok := asPlayer(attacker); ok {
		a.strat = &playerStrategy
		if w := p.Weapon(); w != nil && p.Form().CanWield() {
			a.Weapon = w
			a.wpnSkill = w.Skill
			a.Brand = w.Brand
		} else if p.HasStatus(condition.ConfusingTouch) {
			a.Brand = ruleset.BrandConfuse
		}
		return a
	}

	a.strat = &monsterStrategy
	m, ok := asMonster(attacker)
	if !ok {
		panic(fmt.Sprintf("combat: attacker %q is neither player nor monster", attacker.ID()))
	}
	slot := monsterAttackSlot(m, number)
	a.AttackType, a.Flavour, a.AttackDamage = slot.Type, slot.Flavour, slot.Damage
	if w := m.Weapon(); w != nil && number == 0 && (slot.Type == ruleset.AttackHit || slot.Type == ruleset.AttackWeapon) {
		a.Weapon = w
		a.wpnSkill = w.Skill
		a.Brand = w.Brand
	}
	return a
}

// monsterAttackSlot returns the natural attack used by slot n. Hydra heads
// all bite with the first slot.
func monsterAttackSlot(m MonsterView, n int) ruleset.MonsterAttack {
	attacks := m.Attacks()
	if m.HasFlag(ruleset.FlagHydra) && len(attacks) > 0 {
		return attacks[0]
	}
	if n < 0 || n >= len(attacks) {
		return ruleset.MonsterAttack{Type: ruleset.AttackNone}
	}
	return attacks[n]
}

// Trace returns the phases the attack visited, in order.
func (a *Attack) Trace() []Phase {
	out := make([]Phase, len(a.trace))
	copy(out, a.trace)
	return out
}

// Ended reports whether the End phase has run.
func (a *Attack) Ended() bool { return a.ended }

func (a *Attack) enter(p Phase) {
	a.trace = append(a.trace, p)
	a.sim.Logger.Debug("attack phase",
		zap.String("phase", p.String()),
		zap.String("attacker", a.Attacker.ID()),
		zap.String("defender", a.Defender.ID()),
		zap.Int("attack_number", a.AttackNumber),
	)
}

func (a *Attack) self() bool { return a.Attacker.ID() == a.Defender.ID() }

func (a *Attack) say(ch Channel, format string, args ...any) {
	if a.Simu {
		return
	}
	a.sim.narrate(ch, format, args...)
}

// run drives the instance through every phase. End runs exactly once unless
// the attack was cancelled before it began.
func (a *Attack) run() PhaseResult {
	if a.Cleaving {
		a.AttackOccurred = true
		a.ToHit = a.strat.toHit(a, true)
	} else if res := a.attempted(); res != Continue {
		if a.CancelAttack {
			return Cancelled
		}
		a.end()
		return res
	}
	res := a.resolve()
	a.end()
	return res
}

// attempted validates the swing and pays for it.
func (a *Attack) attempted() PhaseResult {
	a.enter(PhaseAttempted)
	t := &a.sim.Tuning

	if !a.validTarget() {
		a.EffectiveAttackNumber--
		return EndCombat
	}

	if a.Attacker.IsPlayer() && !a.Defender.IsPlayer() {
		if q := a.attackPrompt(); q != "" && !a.sim.confirm(q) {
			a.CancelAttack = true
			return Cancelled
		}
	}

	a.strat.payCost(a)
	a.Attacker.MakeHungry(3)

	if a.floundering() && a.sim.Oracle.OneChanceIn(a.strat.fumbleOneIn(a)) {
		if a.self() {
			a.sim.stimulateXom(t.FumbleSelfXom)
		} else {
			a.sim.stimulateXom(t.FumbleXom)
		}
		if a.Attacker.IsPlayer() {
			a.say(ChannelPlain, "Your unstable footing causes you to fumble your attack.")
		} else {
			a.say(ChannelPlain, "%s %s around in the water.", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("splash"))
		}
		if a.Brand == ruleset.BrandChaos {
			a.chaosAffectsAttacker()
		}
		return EndCombat
	}
	if a.self() && a.Attacker.HasStatus(condition.Confused) {
		if a.Attacker.IsPlayer() {
			a.sim.stimulateXom(t.FumbleSelfXom)
		} else {
			a.sim.stimulateXom(t.FumbleSelfXom / 2)
		}
	}

	if a.Attacker.IsPlayer() && a.Attacker.HasStatus(condition.Afraid) && a.sim.Oracle.OneChanceIn(t.FlinchOneIn) {
		a.say(ChannelPlain, "You attempt to attack %s, but flinch away in fear!", the(a.Defender))
		return EndCombat
	}

	a.ToHit = a.strat.toHit(a, true)
	if a.Flavour == ruleset.FlavourShadowstab && !canSee(a.Defender, a.Attacker) {
		a.say(ChannelCombat, "%s strikes at %s from the darkness!", capitalise(the(a.Attacker)), the(a.Defender))
		a.ToHit = t.AutomaticHit
		a.NeedsMessage = false
	} else if hasFlag(a.Attacker, ruleset.FlagAutoHit) {
		a.ToHit = t.AutomaticHit
	}

	a.AttackOccurred = true
	return Continue
}

// validTarget rejects dead, vanished and out-of-reach defenders and
// constriction attempts that cannot take hold.
func (a *Attack) validTarget() bool {
	if a.Defender == nil || !a.Defender.Alive() || !a.Attacker.Alive() {
		return false
	}
	if a.AttackType == ruleset.AttackNone {
		return false
	}
	dist := a.AttackPosition.Distance(a.Defender.Pos())
	if !a.self() {
		reach := 1
		if a.Weapon != nil {
			if !a.Weapon.Reaches(dist) {
				return false
			}
		} else if dist < 1 || dist > reach {
			return false
		}
	}
	if a.AttackType == ruleset.AttackConstrict && (a.Attacker.Constricting() != "" || a.Defender.IsPlayer() && a.self()) {
		return false
	}
	return true
}

// attackPrompt returns the question to ask before the player strikes a
// creature it may regret hitting, or "" when no prompt is needed.
func (a *Attack) attackPrompt() string {
	d := a.Defender
	switch {
	case d.Attitude() == ruleset.AttitudeFriendly:
		return fmt.Sprintf("Really attack %s?", the(d))
	case d.Attitude() == ruleset.AttitudeNeutral:
		return fmt.Sprintf("Really attack the neutral %s?", d.Name(ruleset.DescPlain))
	case a.sim.Grid.InSanctuary(d.Pos()) || a.sim.Grid.InSanctuary(a.AttackPosition):
		return "Really attack in your sanctuary?"
	}
	return ""
}

func (a *Attack) floundering() bool {
	f := a.sim.Grid.Feature(a.Attacker.Pos())
	return (f == world.ShallowWater || f == world.DeepWater) && !a.Attacker.Flies()
}

// resolve runs everything between Attempted and End.
func (a *Attack) resolve() PhaseResult {
	t := &a.sim.Tuning
	if !a.self() && hasFlag(a.Attacker, ruleset.FlagSuicideAttack) {
		a.DidHit, a.PerceivedAttack = true, true
		a.say(ChannelCombat, "%s %s!", capitalise(the(a.Attacker)), a.Attacker.ConjVerb("explode"))
		a.Attacker.Kill(a.Attacker.ID())
		return EndCombat
	}

	if a.Weapon != nil && a.Weapon.Cleaves && !a.Cleaving && !a.Attacker.HasStatus(condition.Confused) {
		a.cleaveSetup()
	}

	if !a.Attacker.Alive() {
		return EndCombat
	}
	if !a.Defender.Alive() {
		a.handleKilled()
		return EndCombat
	}

	ev := a.Defender.Evasion(false)
	a.EvasionMargin = a.testHit(a.ToHit, ev, !a.Attacker.IsPlayer())
	blocked := a.shieldBlocked()

	if p, ok := asPlayer(a.Attacker); ok && !a.self() {
		if p.Penance() && a.EvasionMargin >= 0 && a.sim.Oracle.OneChanceIn(t.PenanceBlockOneIn) {
			a.say(ChannelGod, "Elyvilon blocks your attack.")
			return EndCombat
		}
		a.stabCheck(p)
		if a.StabAttempt && a.StabBonus > 0 {
			a.EvasionMargin = t.AutomaticHit
			blocked = false
		}
	}

	if blocked {
		return a.handleBlocked()
	}

	if !a.self() && a.Defender.Pos().Adjacent(a.AttackPosition) {
		a.doSpines()
		if !a.Attacker.Alive() {
			return EndCombat
		}
	}

	if a.EvasionMargin < 0 {
		return a.handleDodged()
	}

	if !a.self() && a.wardedOff() {
		a.PerceivedAttack = true
		return EndCombat
	}
	res := a.handleHit()
	a.sustainPassiveDamage()
	if !a.Defender.Alive() {
		a.handleKilled()
	}
	if res != Continue {
		return res
	}
	if a.strat.aux != nil && a.Defender.Alive() && a.Attacker.Alive() && !a.Cleaving {
		a.enter(PhaseAux)
		a.strat.aux(a)
	}
	return Continue
}

// wardedOff reports whether the defender's warding repels a summoned
// attacker.
func (a *Attack) wardedOff() bool {
	if !a.Defender.Warding() || !a.Attacker.Summoned() {
		return false
	}
	if resistsMagic(a, a.Attacker.MagicResistance(), a.sim.Tuning.WardingPower) {
		return false
	}
	if a.NeedsMessage {
		a.say(ChannelCombat, "%s %s to attack %s, but %s away.",
			capitalise(the(a.Attacker)), a.Attacker.ConjVerb("try"), the(a.Defender), a.Attacker.ConjVerb("flinch"))
	}
	return true
}

// resistsMagic rolls magic resistance mr against an effect of power.
func resistsMagic(a *Attack, mr, power int) bool {
	o := a.sim.Oracle
	chance := 100 + mr - power
	roll := o.Random2(100) + o.Random2(101)
	return chance-roll > 0
}

func (a *Attack) handleBlocked() PhaseResult {
	a.enter(PhaseBlocked)
	a.DamageDone = 0
	if a.NeedsMessage {
		a.say(ChannelCombat, "%s %s %s attack.", capitalise(the(a.Defender)), a.Defender.ConjVerb("block"), possessive(a.Attacker))
	}
	return Continue
}

func (a *Attack) handleDodged() PhaseResult {
	a.enter(PhaseDodged)
	a.DidHit = false

	ev := a.Defender.Evasion(false)
	evNoPhase := a.Defender.Evasion(true)
	if a.EvasionMargin+(ev-evNoPhase) > 0 {
		if a.NeedsMessage {
			a.say(ChannelCombat, "%s momentarily %s out as %s attack passes through %s%s",
				capitalise(the(a.Defender)), a.Defender.ConjVerb("phase"), possessive(a.Attacker),
				a.Defender.Pronoun(ruleset.PronounObjective), strengthPunctuation(a.DamageDone))
		}
	} else if a.NeedsMessage {
		a.strat.announceMiss(a)
	}

	if !a.self() && a.Defender.Pos().Adjacent(a.AttackPosition) {
		if a.Attacker.Alive() && a.isMinotaur(a.Defender) && canSee(a.Defender, a.Attacker) && a.EffectiveAttackNumber <= 0 {
			a.minotaurRetaliation()
		}
		if !a.Attacker.Alive() {
			return EndCombat
		}
	}
	return Continue
}

func (a *Attack) isMinotaur(c Combatant) bool {
	if p, ok := asPlayer(c); ok {
		return p.Species() != nil && p.Species().ID == "minotaur"
	}
	return hasFlag(c, ruleset.FlagMinotaur)
}

// handleHit applies a landed blow: damage, hit effects, brands.
func (a *Attack) handleHit() PhaseResult {
	a.enter(PhaseHit)
	a.DidHit, a.PerceivedAttack = true, true

	if p, ok := asPlayer(a.Attacker); ok && p.HasStatus(condition.Slimify) && !a.Cleaving {
		if m, ok := asMonster(a.Defender); ok && m.Slimify(p.ID()) {
			a.DamageDone = 0
			a.say(ChannelCombat, "%s is turned into a slime creature!", capitalise(the(m)))
			p.RemoveStatus(condition.Slimify)
			return EndCombat
		}
	}

	a.DamageDone = a.calcDamage()
	a.applyInfusion()

	if res := a.strat.hitEffects(a); res != Continue {
		a.checkUnrandEffects()
		return res
	}

	if a.DamageDone > 0 || a.Flavour.Damageless() {
		if res := a.handleDamaged(); res != Continue {
			return res
		}
	} else if a.NeedsMessage {
		a.say(ChannelCombat, "%s %s %s but %s no damage.",
			capitalise(the(a.Attacker)), a.Attacker.ConjVerb("hit"), the(a.Defender), a.Attacker.ConjVerb("do"))
	}

	if a.applyDamageBrand() {
		return EndCombat
	}
	if a.checkUnrandEffects() {
		return EndCombat
	}
	if a.DamageDone > 0 {
		a.applyBlackMark()
	}

	if a.Attacker.IsPlayer() {
		if !a.Defender.Alive() {
			return Continue
		}
	} else if p, ok := asPlayer(a.Defender); ok {
		a.passiveFreeze(p)
		a.foulStench(p)
	}
	return Continue
}

// applyInfusion spends a magic point on extra damage for an infused player.
func (a *Attack) applyInfusion() {
	p, ok := asPlayer(a.Attacker)
	if !ok || !p.HasStatus(condition.Infusion) || p.MagicPoints() < 1 {
		return
	}
	power := p.StatusDegree(condition.Infusion)
	dmg := 2 + a.sim.Oracle.DivRandRound(power, 25)
	if hurt := ApplyDefenderAC(a.sim.Oracle, dmg, a.Defender.ArmourClass(), false); hurt > 0 {
		a.DamageDone += hurt
		p.SpendMagic(1)
	}
}

// handleDamaged deals the physical damage, unless a shroud turns it aside.
func (a *Attack) handleDamaged() PhaseResult {
	a.enter(PhaseDamaged)
	t := &a.sim.Tuning
	o := a.sim.Oracle

	if !a.self() && a.Defender.HasStatus(condition.Shroud) && !o.OneChanceIn(t.ShroudBypassOneIn) {
		if o.XChanceInY(a.DamageDone, t.ShroudBreakBase+a.DamageDone) {
			a.shroudBroken = true
			a.Defender.RemoveStatus(condition.Shroud)
		} else {
			if a.NeedsMessage {
				a.say(ChannelCombat, "%s shroud bends %s attack away%s",
					capitalise(possessive(a.Defender)), possessive(a.Attacker), strengthPunctuation(a.DamageDone))
			}
			a.DidHit = false
			a.DamageDone = 0
			return EndCombat
		}
	}

	if !a.Defender.Alive() {
		return EndCombat
	}
	a.strat.announceHit(a)
	a.DamageDone = a.inflictDamage(a.DamageDone, ruleset.ElementPhysical)

	if res := a.strat.damagedEffects(a); res != Continue {
		return res
	}

	if a.shroudBroken && a.NeedsMessage {
		ch := ChannelPlain
		if a.Defender.IsPlayer() {
			ch = ChannelWarning
		}
		a.say(ch, "%s shroud falls apart!", capitalise(possessive(a.Defender)))
	}
	return Continue
}

// inflictDamage hurts the defender and spills its blood.
func (a *Attack) inflictDamage(amount int, el ruleset.Element) int {
	taken := a.Defender.Hurt(a.Attacker.ID(), amount, el)
	if taken > 0 && a.Defender.CanBleed() && !a.Defender.Summoned() {
		a.sim.Grid.Bleed(a.Defender.Pos(), taken)
	}
	return taken
}

// handleKilled finalises the defender's death. It runs at most once. A
// banished defender left the fight without dying: it gets no death
// narration, drops nothing and earns no kill conduct.
func (a *Attack) handleKilled() {
	if a.killed {
		return
	}
	a.killed = true
	a.enter(PhaseKilled)
	if a.Defender.Banished() {
		return
	}
	a.finishOff(a.Defender, a.Attacker)
}

// finishOff kills victim on behalf of killer: the death message, a hydra's
// heads, a dancing weapon's drop and the killer's conduct.
func (a *Attack) finishOff(victim, killer Combatant) {
	victim.Kill(killer.ID())
	switch {
	case victim.IsPlayer():
		a.say(ChannelWarning, "You die...")
	case killer.IsPlayer():
		verb := "kill"
		if victim.Holiness() != ruleset.HolinessNatural && victim.Holiness() != ruleset.HolinessHoly {
			verb = "destroy"
		}
		a.say(ChannelCombat, "You %s %s!", verb, the(victim))
	default:
		a.say(ChannelCombat, "%s %s killed!", capitalise(the(victim)), victim.ConjVerb("are"))
	}

	if m, ok := asMonster(victim); ok {
		if m.HasFlag(ruleset.FlagHydra) {
			m.SetHeads(0)
		}
		if m.HasFlag(ruleset.FlagDancingWeapon) {
			if name, ok := m.DropWeapon(); ok {
				a.sim.Grid.DropItem(victim.Pos(), name)
				a.say(ChannelPlain, "%s falls to the floor.", capitalise(article(name)))
			}
		}
	}

	if killer.IsPlayer() && killer.ID() != victim.ID() {
		switch victim.Holiness() {
		case ruleset.HolinessUndead:
			a.sim.conduct(ConductKillUndead, victim.MaxHP())
		case ruleset.HolinessDemonic:
			a.sim.conduct(ConductKillDemon, victim.MaxHP())
		case ruleset.HolinessHoly:
			a.sim.conduct(ConductKillHoly, victim.MaxHP())
		case ruleset.HolinessNatural:
			a.sim.conduct(ConductKillLiving, victim.MaxHP())
		}
	}
}

// end runs the bookkeeping every attack needs: cleave fan-out, passive
// defences, sanctuary, noise and conduct.
func (a *Attack) end() {
	if a.ended {
		panic(fmt.Sprintf("combat: End entered twice for %s attacking %s", a.Attacker.ID(), a.Defender.ID()))
	}
	a.ended = true
	a.enter(PhaseEnd)

	a.attackCleaveTargets()

	if p, ok := asPlayer(a.Defender); ok && p.Alive() && !a.self() && a.AttackOccurred {
		if m, ok := asMonster(a.Attacker); ok {
			a.eyeballConfusion(p, m)
			a.tendrilDisarm(p, m)
		}
	}

	if !a.AttackOccurred {
		return
	}

	if a.sim.Grid.HasSanctuary() && !a.self() && !a.Attacker.HasStatus(condition.Confused) &&
		wontAttack(a.Attacker) &&
		(a.sim.Grid.InSanctuary(a.AttackPosition) || a.sim.Grid.InSanctuary(a.Defender.Pos())) {
		a.sim.Grid.RemoveSanctuary()
		a.say(ChannelGod, "The sanctuary fades.")
	}

	if a.Attacker.IsPlayer() && a.Brand == ruleset.BrandChaos && a.Attacker.Alive() {
		a.chaosAffectsAttacker()
	}

	a.handleNoise()

	if a.Attacker.IsPlayer() && !a.self() {
		switch {
		case a.Defender.Holiness() == ruleset.HolinessHoly:
			a.sim.conduct(ConductAttackHoly, a.Defender.MaxHP())
		case a.Defender.Attitude() == ruleset.AttitudeFriendly:
			a.sim.conduct(ConductAttackFriend, 5)
		case a.Defender.Attitude() == ruleset.AttitudeNeutral:
			a.sim.conduct(ConductAttackNeutral, 5)
		}
	}
}

// handleNoise makes the swing heard. Successful stabs are silent.
func (a *Attack) handleNoise() {
	if a.StabAttempt || a.Defender.Banished() {
		return
	}
	loudness := a.DamageDone / 4
	if loudness < 1 {
		loudness = 1
	}
	loudness = loudness * a.noiseFactor / 100
	if loudness > a.sim.Tuning.NoiseCap {
		loudness = a.sim.Tuning.NoiseCap
	}
	a.sim.Grid.Noise(a.Defender.Pos(), loudness, a.Attacker.ID())
}

// checkUnrandEffects fires the weapon's scripted hook, if it has one. It
// reports whether the defender died.
func (a *Attack) checkUnrandEffects() bool {
	if a.Weapon == nil || a.Weapon.Hook == "" || a.sim.Effects == nil {
		return false
	}
	if err := a.sim.Effects.OnHit(a.Weapon.Hook, a); err != nil {
		a.sim.Logger.Warn("melee effect failed",
			zap.String("hook", a.Weapon.Hook),
			zap.String("weapon", a.Weapon.ID),
			zap.Error(err),
		)
	}
	return !a.Defender.Alive()
}

// applyBlackMark lets a marked attacker feed on the wound.
func (a *Attack) applyBlackMark() {
	p, ok := asPlayer(a.Attacker)
	if !ok || p.MutationLevel(ruleset.MutBlackMark) == 0 {
		return
	}
	o := a.sim.Oracle
	if !o.OneChanceIn(a.sim.Tuning.BlackMarkOneIn) {
		return
	}
	if p.HP() < p.MaxHP() && !a.Defender.Summoned() {
		a.say(ChannelPlain, "You feel better.")
		p.Heal(o.Random2(a.DamageDone))
	}
	if !a.Defender.Alive() {
		return
	}
	switch o.Random2(3) {
	case 0:
		a.antimagicAffectsDefender(a.DamageDone * 8)
	case 1:
		a.Defender.ApplyStatus(condition.Weak, 1, 2, a.Attacker.ID())
	default:
		a.Defender.DrainExp(a.Attacker.ID(), false)
	}
}

// Sim returns the simulation the attack runs in. Scripted effects use it.
func (a *Attack) Sim() *Sim { return a.sim }

// DealSpecial deals resist-adjusted damage of element el on behalf of a
// scripted effect and returns what the defender took.
func (a *Attack) DealSpecial(amount int, el ruleset.Element) int {
	if !a.Defender.Alive() {
		return 0
	}
	taken := a.inflictDamage(adjustFor(a.Defender, el, amount), el)
	a.SpecialDealt += taken
	return taken
}

// Say narrates text on the combat channel on behalf of a scripted effect.
func (a *Attack) Say(text string) {
	a.say(ChannelCombat, "%s", text)
}

func article(noun string) string {
	if noun == "" {
		return noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + noun
	}
	return "a " + noun
}
