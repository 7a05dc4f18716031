package ruleset

import "gopkg.in/yaml.v3"

// Form is a player transformation.
type Form int

const (
	FormNone Form = iota
	FormSpider
	FormIceBeast
	FormDragon
	FormLich
	FormStatue
	FormBat
	FormBladeHands
	FormFungus
	FormTree
	FormWisp
	FormShadow
	FormPorcupine
	FormPig
)

var formNames = []string{
	"none", "spider", "ice_beast", "dragon", "lich", "statue", "bat",
	"blade_hands", "fungus", "tree", "wisp", "shadow", "porcupine", "pig",
}

func (f Form) String() string { return enumName("form", formNames, int(f)) }

// UnmarshalYAML decodes a form name.
func (f *Form) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "form", formNames)
	if err != nil {
		return err
	}
	*f = Form(v)
	return nil
}

// UnarmedToHit is the to-hit bonus the form grants unarmed melee.
func (f Form) UnarmedToHit() int {
	switch f {
	case FormSpider, FormIceBeast, FormDragon, FormLich, FormFungus, FormTree, FormWisp:
		return 10
	case FormBat, FormBladeHands:
		return 12
	case FormStatue:
		return 9
	default:
		return 0
	}
}

// BaseUnarmedDamage is the unarmed damage potential before skill.
func (f Form) BaseUnarmedDamage() int {
	switch f {
	case FormSpider, FormBat:
		return 5
	case FormIceBeast:
		return 12
	case FormDragon:
		return 20
	case FormStatue, FormTree:
		return 12
	case FormBladeHands:
		return 3
	case FormFungus, FormWisp:
		return 0
	default:
		return 3
	}
}

// BlocksLimbAux reports whether the form has no usable limbs for kicks,
// pecks, headbutts or punches.
func (f Form) BlocksLimbAux() bool {
	switch f {
	case FormIceBeast, FormDragon, FormSpider, FormBat, FormPig, FormWisp, FormFungus, FormTree:
		return true
	default:
		return false
	}
}

// CanWield reports whether the form can swing a weapon.
func (f Form) CanWield() bool {
	switch f {
	case FormNone, FormStatue, FormLich, FormShadow, FormPorcupine:
		return true
	default:
		return false
	}
}

// KeepsMutations reports whether body mutations such as horns still work
// in this form.
func (f Form) KeepsMutations() bool {
	switch f {
	case FormNone, FormBladeHands, FormLich, FormShadow:
		return true
	default:
		return false
	}
}
