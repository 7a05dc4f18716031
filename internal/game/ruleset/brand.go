package ruleset

import "gopkg.in/yaml.v3"

// Brand is the special property of a weapon.
type Brand int

const (
	BrandNormal Brand = iota
	BrandFlaming
	BrandFreezing
	BrandHolyWrath
	BrandElectrocution
	BrandVenom
	BrandDraining
	BrandVorpal
	BrandVampirism
	BrandPain
	BrandDistortion
	BrandConfuse
	BrandChaos
	BrandAntimagic
	BrandDragonSlaying
	BrandAcid
	brandCount
)

var brandNames = []string{
	"normal", "flaming", "freezing", "holy_wrath", "electrocution", "venom",
	"draining", "vorpal", "vampirism", "pain", "distortion", "confuse", "chaos",
	"antimagic", "dragon_slaying", "acid",
}

func (b Brand) String() string { return enumName("brand", brandNames, int(b)) }

// AllBrands returns every defined brand in declaration order.
func AllBrands() []Brand {
	out := make([]Brand, brandCount)
	for i := range out {
		out[i] = Brand(i)
	}
	return out
}

// ParseBrand converts a content name to a Brand.
func ParseBrand(s string) (Brand, error) {
	v, err := parseEnum("brand", brandNames, s)
	return Brand(v), err
}

// UnmarshalYAML decodes a brand name.
func (b *Brand) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "brand", brandNames)
	if err != nil {
		return err
	}
	*b = Brand(v)
	return nil
}

// DamageType is how a weapon or natural attack cuts into its target.
type DamageType int

const (
	DamageCrushing DamageType = iota
	DamageSlicing
	DamagePiercing
	DamageChopping
	DamageClawing
)

var damageTypeNames = []string{"crushing", "slicing", "piercing", "chopping", "clawing"}

func (d DamageType) String() string { return enumName("damage type", damageTypeNames, int(d)) }

// UnmarshalYAML decodes a damage type name.
func (d *DamageType) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "damage type", damageTypeNames)
	if err != nil {
		return err
	}
	*d = DamageType(v)
	return nil
}

// Severs reports whether the damage type can take a head off a hydra.
func (d DamageType) Severs() bool {
	return d == DamageSlicing || d == DamageChopping || d == DamageClawing
}
