package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/melee/internal/game/condition"
	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/ruleset"
	"github.com/cory-johannsen/melee/internal/game/world"
)

func (a *Attack) clearSpecial() {
	a.SpecialDamage = 0
	a.SpecialDamageMessage = ""
	a.SpecialDamageElement = ruleset.ElementPhysical
}

func (a *Attack) setSpecial(amount int, el ruleset.Element, msg string) {
	a.SpecialDamage = amount
	a.SpecialDamageElement = el
	a.SpecialDamageMessage = msg
}

// flushSpecial narrates and deals the pending special damage, then zeroes
// it. With exposeStrength > 0 the defender is exposed to the element too.
func (a *Attack) flushSpecial(exposeStrength int) {
	if a.SpecialDamage > 0 || a.SpecialDamageMessage != "" {
		if a.SpecialDamageMessage != "" && a.NeedsMessage {
			a.say(ChannelFlavour, "%s", a.SpecialDamageMessage)
		}
		if a.SpecialDamage > 0 && a.Defender.Alive() {
			a.SpecialDealt += a.inflictDamage(a.SpecialDamage, a.SpecialDamageElement)
		}
		if exposeStrength > 0 && a.SpecialDamageElement != ruleset.ElementPhysical {
			a.Defender.ExposeToElement(a.SpecialDamageElement, exposeStrength)
		}
	}
	a.clearSpecial()
}

// elementalSpecial queues resist-adjusted elemental damage with a message
// built from verb.
func (a *Attack) elementalSpecial(el ruleset.Element, raw int, verb string) {
	dmg := adjustFor(a.Defender, el, raw)
	msg := ""
	if dmg > 0 {
		msg = capitalise(the(a.Attacker)) + " " + a.Attacker.ConjVerb(verb) + " " + the(a.Defender) +
			strengthPunctuation(dmg)
	} else if raw > 0 && a.Defender.Resist(el) > 0 {
		msg = capitalise(the(a.Defender)) + " " + a.Defender.ConjVerb("resist") + "."
	}
	a.setSpecial(dmg, el, msg)
}

// distortion outcomes, weighted.
type distortEffect int

const (
	distortSmall distortEffect = iota
	distortBig
	distortBanish
	distortBlink
	distortTeleport
	distortNone
)

var distortTable = []dice.Weighted[distortEffect]{
	{Weight: 33, Value: distortSmall},
	{Weight: 22, Value: distortBig},
	{Weight: 5, Value: distortBanish},
	{Weight: 15, Value: distortBlink},
	{Weight: 10, Value: distortTeleport},
	{Weight: 15, Value: distortNone},
}

// distortionAffectsDefender warps space around the defender. It reports
// whether the defender was banished.
func (a *Attack) distortionAffectsDefender() bool {
	o := a.sim.Oracle
	d := a.Defender
	switch dice.Choose(o, distortTable) {
	case distortSmall:
		a.setSpecial(1+o.Random2Avg(7, 2), ruleset.ElementPhysical, "Space bends around "+the(d)+".")
	case distortBig:
		a.setSpecial(3+o.Random2Avg(24, 2), ruleset.ElementPhysical, "Space warps horribly around "+the(d)+"!")
	case distortBlink:
		a.blink(d)
	case distortTeleport:
		a.teleport(d)
	case distortBanish:
		a.say(ChannelFlavour, "%s %s sucked into another dimension!", capitalise(the(d)), d.ConjVerb("are"))
		d.Banish(a.Attacker.ID())
		a.sim.Logger.Debug("banished", zap.String("defender", d.ID()))
		return true
	}
	return false
}

// antimagicAffectsDefender disrupts the defender's magic with power pow.
func (a *Attack) antimagicAffectsDefender(pow int) {
	d := a.Defender
	o := a.sim.Oracle
	if d.IsPlayer() {
		drained := d.DrainMagic(o.DivRandRound(pow, 20))
		if drained > 0 {
			a.say(ChannelWarning, "You feel your power leaking away.")
		}
		return
	}
	if !hasFlag(d, ruleset.FlagSpellcaster) && d.MagicPoints() == 0 {
		return
	}
	turns := 1 + o.Random2(pow/10+1)
	if d.ApplyStatus(condition.Antimagic, 1, turns, a.Attacker.ID()) {
		a.say(ChannelFlavour, "%s magic is disrupted.", capitalise(possessive(d)))
	}
	d.DrainMagic(o.DivRandRound(pow, 10))
}

// chaosAffectsAttacker may wrap a chaos wielder in a cloud or a noise.
func (a *Attack) chaosAffectsAttacker() {
	o := a.sim.Oracle
	t := &a.sim.Tuning
	at := a.Attacker
	if o.OneChanceIn(t.ChaosCloudOneIn) {
		kinds := []world.CloudKind{world.FireCloud, world.ColdCloud, world.PoisonCloud, world.SteamCloud, world.MiasmaCloud}
		kind := kinds[o.Random2(len(kinds))]
		if a.sim.Grid.PlaceCloud(at.Pos(), kind, 3+o.Random2(5), at.ID()) {
			a.say(ChannelFlavour, "A cloud of %s billows out of %s weapon!", kind, possessive(at))
			a.sim.stimulateXom(5)
		}
	}
	if o.OneChanceIn(t.ChaosNoiseOneIn) {
		a.sim.Grid.Noise(at.Pos(), 15, at.ID())
		a.say(ChannelFlavour, "%s weapon lets out a weird moan.", capitalise(possessive(at)))
		a.sim.stimulateXom(2)
	}
}

// chaosBrands are the effects a chaos weapon can borrow.
var chaosBrands = []dice.Weighted[ruleset.Brand]{
	{Weight: 10, Value: ruleset.BrandFlaming},
	{Weight: 10, Value: ruleset.BrandFreezing},
	{Weight: 10, Value: ruleset.BrandElectrocution},
	{Weight: 10, Value: ruleset.BrandVenom},
	{Weight: 5, Value: ruleset.BrandDraining},
	{Weight: 5, Value: ruleset.BrandVampirism},
	{Weight: 5, Value: ruleset.BrandHolyWrath},
	{Weight: 3, Value: ruleset.BrandAntimagic},
	{Weight: 2, Value: ruleset.BrandConfuse},
	{Weight: 2, Value: ruleset.BrandDistortion},
	{Weight: 3, Value: ruleset.BrandNormal},
}

// splashWithAcid corrodes target on behalf of source.
func (a *Attack) splashWithAcid(target, source Combatant, strength int) {
	o := a.sim.Oracle
	if target.Resist(ruleset.ElementAcid) >= 3 {
		return
	}
	dmg := adjustFor(target, ruleset.ElementAcid, o.RollDice(strength, 3))
	if dmg > 0 {
		a.say(ChannelFlavour, "%s %s burned by acid!", capitalise(the(target)), target.ConjVerb("are"))
		target.Hurt(source.ID(), dmg, ruleset.ElementAcid)
	}
	if o.OneChanceIn(a.sim.Tuning.AcidCorrodeOneIn) {
		target.ApplyStatus(condition.Corroded, 1, 10+o.Random2(10), source.ID())
	}
	target.ExposeToElement(ruleset.ElementAcid, strength)
}

// freeCellsWithin returns every open, unoccupied cell within radius of c.
func (a *Attack) freeCellsWithin(c world.Coord, radius int) []world.Coord {
	g := a.sim.Grid
	var out []world.Coord
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			cell := world.Coord{X: x, Y: y}
			if cell == c || !g.InBounds(cell) || g.IsSolid(cell) {
				continue
			}
			if _, occupied := a.sim.Roster.At(cell); occupied {
				continue
			}
			out = append(out, cell)
		}
	}
	return out
}

func (a *Attack) relocate(c Combatant, radius int, verb string) bool {
	cells := a.freeCellsWithin(c.Pos(), radius)
	if len(cells) == 0 || !c.Alive() {
		return false
	}
	to := cells[a.sim.Oracle.Random2(len(cells))]
	c.MoveTo(to)
	a.say(ChannelFlavour, "%s %s!", capitalise(the(c)), c.ConjVerb(verb))
	return true
}

// blink moves c to a nearby free cell.
func (a *Attack) blink(c Combatant) bool { return a.relocate(c, 3, "blink") }

// teleport moves c to any free cell in the arena.
func (a *Attack) teleport(c Combatant) bool {
	g := a.sim.Grid
	return a.relocate(c, max(g.Width, g.Height), "disappear")
}

// knockback pushes target one cell directly away from the attacker when
// the cell beyond is open.
func (a *Attack) knockback(target Combatant) bool {
	from := a.Attacker.Pos()
	delta := target.Pos().Sub(from)
	step := world.Coord{X: sign(delta.X), Y: sign(delta.Y)}
	dest := target.Pos().Add(step)
	if step == (world.Coord{}) || a.sim.Grid.IsSolid(dest) {
		return false
	}
	if _, occupied := a.sim.Roster.At(dest); occupied {
		return false
	}
	target.MoveTo(dest)
	a.say(ChannelCombat, "%s %s knocked back by %s.", capitalise(the(target)), target.ConjVerb("are"), the(a.Attacker))
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
