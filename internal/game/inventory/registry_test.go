package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/melee/internal/game/inventory"
)

func TestRegistry_RegisterWeapon_Lookup(t *testing.T) {
	r := inventory.NewRegistry()
	def := longSword()
	if err := r.RegisterWeapon(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.Weapon(def.ID); got != def {
		t.Fatalf("expected registered weapon, got %+v", got)
	}
	if err := r.RegisterWeapon(def); err == nil {
		t.Fatal("expected collision error on second register, got nil")
	}
}

func TestRegistry_Armour_NotFound(t *testing.T) {
	r := inventory.NewRegistry()
	if _, ok := r.Armour("does-not-exist"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestRegistry_AllWeapons_Sorted(t *testing.T) {
	r := inventory.NewRegistry()
	for _, id := range []string{"w3", "w1", "w2"} {
		if err := r.RegisterWeapon(&inventory.WeaponDef{ID: id, Name: id, Damage: 4, Delay: 10}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	all := r.AllWeapons()
	if len(all) != 3 || all[0].ID != "w1" || all[2].ID != "w3" {
		t.Fatalf("expected sorted weapons, got %v", all)
	}
}

func TestLoadRegistry(t *testing.T) {
	wdir, adir := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(wdir, "dagger.yaml"), []byte("id: dagger\nname: dagger\ndamage: 4\ndelay: 10\nskill: short_blades\ndamage_type: piercing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(adir, "robe.yaml"), []byte("id: robe\nname: robe\nkind: body\nac: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	reg, err := inventory.LoadRegistry(wdir, adir)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if reg.Weapon("dagger") == nil {
		t.Fatal("dagger not registered")
	}
	if _, ok := reg.Armour("robe"); !ok {
		t.Fatal("robe not registered")
	}
}
