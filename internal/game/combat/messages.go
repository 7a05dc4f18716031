package combat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cory-johannsen/melee/internal/game/ruleset"
)

// Damage thresholds that pick the punctuation and verb of a hit.
const (
	hitWeak   = 7
	hitMedium = 18
	hitStrong = 36
)

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// strengthPunctuation closes a hit message with more exclamation marks the
// harder the hit landed.
func strengthPunctuation(damage int) string {
	switch {
	case damage < hitWeak:
		return "."
	case damage < hitMedium:
		return "!"
	case damage < hitStrong:
		return "!!"
	default:
		return strings.Repeat("!", 3+(damage-hitStrong)/hitStrong)
	}
}

// evasionAdverb describes how narrowly a miss missed.
func evasionAdverb(margin int) string {
	switch {
	case margin <= -20:
		return " completely"
	case margin <= -12:
		return ""
	case margin <= -6:
		return " closely"
	default:
		return " barely"
	}
}

// possessive renders the "its" form of c's name.
func possessive(c Combatant) string {
	return c.Name(ruleset.DescIts)
}

func the(c Combatant) string {
	return c.Name(ruleset.DescThe)
}

type verbChoice struct {
	verb, degree string
}

// weaponVerb picks the attack verb for a player hit of damage through w.
// Big hits draw a flourish from the oracle.
func (a *Attack) weaponVerb(damage int) verbChoice {
	w := a.Weapon
	if w == nil {
		return a.unarmedVerb(damage)
	}
	if damage < hitWeak {
		return verbChoice{verb: "hit"}
	}
	var small, medium string
	var big []verbChoice
	switch w.DamageType {
	case ruleset.DamagePiercing:
		small, medium = "puncture", "impale"
		big = []verbChoice{{"spit", "like a pig"}, {"skewer", "like a kebab"}, {"stick", "like a pincushion"}, {"perforate", "like a sieve"}}
	case ruleset.DamageSlicing, ruleset.DamageChopping:
		small, medium = "slash", "slice"
		big = []verbChoice{{"open", "like a pillowcase"}, {"slice", "like a ripe choko"}, {"cut", "into ribbons"}, {"carve", "like a ham"}, {"chop", "into pieces"}}
	case ruleset.DamageCrushing:
		small, medium = "sock", "bludgeon"
		big = []verbChoice{{"crush", "like a grape"}, {"beat", "like a drum"}, {"hammer", "like a gong"}, {"pound", "like an anvil"}, {"flatten", "like a pancake"}}
	default:
		small, medium = "scratch", "mangle"
		big = []verbChoice{{"eviscerate", ""}}
	}
	switch {
	case damage < hitMedium:
		return verbChoice{verb: small}
	case damage < hitStrong:
		return verbChoice{verb: medium}
	default:
		return big[a.sim.Oracle.Random2(len(big))]
	}
}

func (a *Attack) unarmedVerb(damage int) verbChoice {
	p, ok := asPlayer(a.Attacker)
	if !ok {
		return verbChoice{verb: "hit"}
	}
	tiers := func(weak, med, strong, huge string) verbChoice {
		switch {
		case damage < hitWeak:
			return verbChoice{verb: weak}
		case damage < hitMedium:
			return verbChoice{verb: med}
		case damage < hitStrong:
			return verbChoice{verb: strong}
		default:
			return verbChoice{verb: huge}
		}
	}
	switch p.Form() {
	case ruleset.FormSpider, ruleset.FormBat, ruleset.FormPig, ruleset.FormPorcupine:
		return tiers("hit", "bite", "bite", "maul")
	case ruleset.FormBladeHands:
		return tiers("hit", "slash", "slice", "shred")
	case ruleset.FormTree:
		return tiers("hit", "smack", "pummel", "thrash")
	case ruleset.FormDragon:
		return tiers("hit", "claw", "bite", "maul")
	case ruleset.FormWisp:
		return tiers("touch", "hit", "engulf", "engulf")
	case ruleset.FormFungus:
		return verbChoice{verb: "release spores at"}
	}
	if p.MutationLevel(ruleset.MutClaws) > 0 {
		return tiers("scratch", "claw", "mangle", "eviscerate")
	}
	return tiers("hit", "punch", "pummel", "squash")
}
