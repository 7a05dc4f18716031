package condition

import "fmt"

// ActiveCondition tracks one applied status on a combatant.
type ActiveCondition struct {
	Def    *ConditionDef
	Stacks int
	// Turns remaining; -1 for permanent statuses.
	Turns int
	// Source is the ID of the combatant that applied the status, if any.
	Source string
}

// ActiveSet tracks all statuses currently applied to one combatant.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or refreshes a status. Stackable statuses accumulate stacks up
// to MaxStacks; unstackable ones stay at one stack. The remaining duration
// becomes the longer of the existing and requested durations. Permanent
// statuses always store -1.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, turns int, source string) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if def.DurationType == DurationPermanent {
		turns = -1
	}
	if stacks < 1 {
		stacks = 1
	}

	existing, ok := s.conditions[def.ID]
	if !ok {
		s.conditions[def.ID] = &ActiveCondition{
			Def:    def,
			Stacks: capStacks(def, stacks),
			Turns:  turns,
			Source: source,
		}
		return nil
	}

	if def.MaxStacks > 0 {
		existing.Stacks = capStacks(def, existing.Stacks+stacks)
	}
	if turns > existing.Turns {
		existing.Turns = turns
	}
	if source != "" {
		existing.Source = source
	}
	return nil
}

func capStacks(def *ConditionDef, stacks int) int {
	if def.MaxStacks == 0 {
		return 1
	}
	if stacks > def.MaxStacks {
		return def.MaxStacks
	}
	return stacks
}

// Remove deletes the status with the given ID. Removing an absent status is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Reduce lowers the stack count of id by n, removing it at zero.
//
// Postcondition: Stacks(id) == max(0, previous - n).
func (s *ActiveSet) Reduce(id string, n int) {
	ac, ok := s.conditions[id]
	if !ok {
		return
	}
	ac.Stacks -= n
	if ac.Stacks <= 0 {
		delete(s.conditions, id)
	}
}

// Tick advances every timed status by one turn and returns the IDs that
// expired. Permanent statuses are untouched.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, ac := range s.conditions {
		if ac.Turns < 0 {
			continue
		}
		ac.Turns--
		if ac.Turns <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	return expired
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// Turns returns the remaining duration for id: -1 for permanent, 0 when absent.
func (s *ActiveSet) Turns(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Turns
	}
	return 0
}

// Source returns the ID of whoever applied id, or "" if unknown or absent.
func (s *ActiveSet) Source(id string) string {
	if ac, ok := s.conditions[id]; ok {
		return ac.Source
	}
	return ""
}

// All returns a slice of pointers to the active statuses. The pointed-to
// values are shared and must not be modified by callers.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	return out
}
