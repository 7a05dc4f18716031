package combat

import (
	"fmt"

	"github.com/cory-johannsen/melee/internal/game/world"
)

// Roster tracks every combatant in the arena in spawn order.
// It is not safe for concurrent use.
type Roster struct {
	order []string
	byID  map[string]Combatant
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[string]Combatant)}
}

// Add registers c.
//
// Precondition: c must be non-nil.
// Postcondition: Get(c.ID()) returns c, or an error is returned for a duplicate ID.
func (r *Roster) Add(c Combatant) error {
	if _, dup := r.byID[c.ID()]; dup {
		return fmt.Errorf("combatant %q already in roster", c.ID())
	}
	r.byID[c.ID()] = c
	r.order = append(r.order, c.ID())
	return nil
}

// Remove drops the combatant with id. Removing an absent ID is a no-op.
func (r *Roster) Remove(id string) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, have := range r.order {
		if have == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the combatant with id.
func (r *Roster) Get(id string) (Combatant, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// At returns the living combatant standing on c.
func (r *Roster) At(c world.Coord) (Combatant, bool) {
	for _, id := range r.order {
		if cb := r.byID[id]; cb.Alive() && cb.Pos() == c {
			return cb, true
		}
	}
	return nil, false
}

// All returns every combatant in spawn order.
func (r *Roster) All() []Combatant {
	out := make([]Combatant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Living returns the combatants still in the fight, in spawn order.
func (r *Roster) Living() []Combatant {
	out := make([]Combatant, 0, len(r.order))
	for _, id := range r.order {
		if c := r.byID[id]; c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Player returns the player, if one is registered.
func (r *Roster) Player() (PlayerView, bool) {
	for _, id := range r.order {
		if p, ok := asPlayer(r.byID[id]); ok {
			return p, true
		}
	}
	return nil, false
}
