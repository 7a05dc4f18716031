package ruleset

import "gopkg.in/yaml.v3"

// Element is the damage flavour used for resistance checks and exposure.
type Element int

const (
	ElementPhysical Element = iota
	ElementFire
	ElementCold
	ElementElec
	ElementPoison
	ElementPoisonArrow
	ElementNeg
	ElementAcid
	ElementWater
	ElementIce
	ElementLava
	ElementGhostlyFlame
	ElementNapalm
	ElementMiasma
	ElementHoly
)

var elementNames = []string{
	"physical", "fire", "cold", "elec", "poison", "poison_arrow", "neg", "acid",
	"water", "ice", "lava", "ghostly_flame", "napalm", "miasma", "holy",
}

func (e Element) String() string { return enumName("element", elementNames, int(e)) }

// ParseElement converts a content name such as "fire" to an Element.
func ParseElement(s string) (Element, error) {
	v, err := parseEnum("element", elementNames, s)
	return Element(v), err
}

// UnmarshalYAML decodes an element name.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "element", elementNames)
	if err != nil {
		return err
	}
	*e = Element(v)
	return nil
}

// ResistibleFraction is the percentage of raw damage of this element that a
// resistance can reduce. The rest is treated as physical.
func (e Element) ResistibleFraction() int {
	switch e {
	case ElementWater, ElementIce:
		return 40
	case ElementLava:
		return 55
	case ElementPoisonArrow, ElementGhostlyFlame:
		return 70
	default:
		return 100
	}
}

// BooleanResist reports whether any positive resistance to e counts as one
// extra level.
func (e Element) BooleanResist() bool {
	switch e {
	case ElementElec, ElementMiasma, ElementNapalm, ElementWater:
		return true
	default:
		return false
	}
}

// ResistKey maps an element to the resistance it is checked against. Poison
// arrows check poison, ice checks cold, lava and napalm check fire.
func (e Element) ResistKey() Element {
	switch e {
	case ElementPoisonArrow:
		return ElementPoison
	case ElementIce:
		return ElementCold
	case ElementLava, ElementNapalm, ElementGhostlyFlame:
		return ElementFire
	default:
		return e
	}
}
