package ai_test

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/melee/internal/game/ai"
	"github.com/cory-johannsen/melee/internal/game/world"
)

// mockScriptCaller answers every hook with the configured value and records
// the calls it saw.
type mockScriptCaller struct {
	returnVal lua.LValue
	byHook    map[string]lua.LValue
	calls     []hookCall
}

type hookCall struct {
	namespace, hook string
	args            []lua.LValue
}

func (m *mockScriptCaller) CallHook(namespace, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, hookCall{namespace: namespace, hook: hook, args: args})
	if v, ok := m.byHook[hook]; ok {
		return v, nil
	}
	if m.returnVal == nil {
		return lua.LNil, nil
	}
	return m.returnVal, nil
}

func brawlerDomain() *ai.Domain {
	return &ai.Domain{
		ID: "brawler",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "close_in", Precondition: "enemy_in_reach", Subtasks: []string{"fight"}},
			{TaskID: "behave", ID: "approach", Precondition: "enemy_exists", Subtasks: []string{"step"}},
			{TaskID: "behave", ID: "idle", Subtasks: []string{"rest"}},
			{TaskID: "fight", ID: "hit_weakest", Subtasks: []string{"strike"}},
		},
		Operators: []*ai.Operator{
			{ID: "strike", Action: ai.ActionAttack, Target: "weakest_reachable"},
			{ID: "step", Action: ai.ActionAdvance, Target: "nearest_enemy"},
			{ID: "rest", Action: ai.ActionWait},
		},
	}
}

func arenaState() *ai.WorldState {
	self := ai.CombatantState{ID: "player", Name: "Grunt", Side: ai.SidePlayer, HP: 30, MaxHP: 60, Pos: world.Coord{X: 2, Y: 2}}
	return &ai.WorldState{
		Self: &ai.SelfState{CombatantState: self, Reach: 1},
		Combatants: []*ai.CombatantState{
			&self,
			{ID: "goblin-1", Name: "goblin", Side: ai.SideMonsters, HP: 10, MaxHP: 10, Pos: world.Coord{X: 2, Y: 3}},
			{ID: "goblin-2", Name: "goblin", Side: ai.SideMonsters, HP: 2, MaxHP: 10, Pos: world.Coord{X: 3, Y: 3}},
			{ID: "orc", Name: "orc", Side: ai.SideMonsters, HP: 1, MaxHP: 20, Pos: world.Coord{X: 6, Y: 6}},
		},
	}
}

func TestPlanner_Plan_AttacksWeakestInReach(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(brawlerDomain(), caller, "pit")

	actions, err := planner.Plan(arenaState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionAttack {
		t.Fatalf("expected one attack, got %v", actions)
	}
	// The orc is weaker but out of reach.
	if actions[0].Target != "goblin-2" {
		t.Fatalf("expected target goblin-2, got %q", actions[0].Target)
	}
}

func TestPlanner_Plan_PassesStateToPreconditions(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LTrue}
	planner := ai.NewPlanner(brawlerDomain(), caller, "pit")

	if _, err := planner.Plan(arenaState()); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(caller.calls) != 1 {
		t.Fatalf("expected one precondition call, got %d", len(caller.calls))
	}
	c := caller.calls[0]
	if c.namespace != "pit" || c.hook != "enemy_in_reach" {
		t.Fatalf("unexpected call %s/%s", c.namespace, c.hook)
	}
	want := []lua.LValue{lua.LString("player"), lua.LNumber(50), lua.LNumber(2), lua.LNumber(3)}
	for i, v := range want {
		if c.args[i] != v {
			t.Fatalf("arg %d: expected %v, got %v", i, v, c.args[i])
		}
	}
}

func TestPlanner_Plan_AdvancesWhenNothingInReach(t *testing.T) {
	caller := &mockScriptCaller{byHook: map[string]lua.LValue{"enemy_in_reach": lua.LFalse, "enemy_exists": lua.LTrue}}
	planner := ai.NewPlanner(brawlerDomain(), caller, "pit")

	actions, err := planner.Plan(arenaState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionAdvance || actions[0].Target != "goblin-1" {
		t.Fatalf("expected advance on goblin-1, got %v", actions)
	}
}

func TestPlanner_Plan_FallsBackToWaitWhenPreconditionsFail(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LFalse}
	planner := ai.NewPlanner(brawlerDomain(), caller, "pit")

	actions, err := planner.Plan(arenaState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != ai.ActionWait || actions[0].Target != "" {
		t.Fatalf("expected wait fallback, got %v", actions)
	}
}

func TestPlanner_Plan_NonBooleanPreconditionIsFalse(t *testing.T) {
	caller := &mockScriptCaller{returnVal: lua.LNumber(1)}
	planner := ai.NewPlanner(brawlerDomain(), caller, "pit")

	actions, _ := planner.Plan(arenaState())
	if len(actions) != 1 || actions[0].Action != ai.ActionWait {
		t.Fatalf("expected wait, got %v", actions)
	}
}

func TestPlanner_Plan_NoMethodsYieldsEmptyPlan(t *testing.T) {
	domain := &ai.Domain{ID: "empty", Tasks: []*ai.Task{{ID: "behave"}}}
	planner := ai.NewPlanner(domain, &mockScriptCaller{}, "pit")

	actions, err := planner.Plan(arenaState())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actions == nil || len(actions) != 0 {
		t.Fatalf("expected empty non-nil plan, got %#v", actions)
	}
}

func TestPlanner_Plan_RecursiveDomainTerminates(t *testing.T) {
	domain := &ai.Domain{
		ID:    "loop",
		Tasks: []*ai.Task{{ID: "behave"}},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "again", Subtasks: []string{"rest", "behave"}},
		},
		Operators: []*ai.Operator{{ID: "rest", Action: ai.ActionWait}},
	}
	planner := ai.NewPlanner(domain, &mockScriptCaller{}, "pit")

	actions, err := planner.Plan(arenaState())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(actions) == 0 || len(actions) > 32 {
		t.Fatalf("expected a bounded plan, got %d actions", len(actions))
	}
}

func TestPlanner_Plan_RejectsNilState(t *testing.T) {
	planner := ai.NewPlanner(brawlerDomain(), &mockScriptCaller{}, "pit")
	if _, err := planner.Plan(nil); err == nil {
		t.Fatal("expected error for nil state")
	}
	if _, err := planner.Plan(&ai.WorldState{}); err == nil {
		t.Fatal("expected error for nil Self")
	}
}

func TestNewPlanner_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	ai.NewPlanner(nil, &mockScriptCaller{}, "pit")
}

func TestProperty_Planner_NeverReturnsNilSlice(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var lv lua.LValue = lua.LFalse
		if rapid.Bool().Draw(rt, "precond") {
			lv = lua.LTrue
		}
		planner := ai.NewPlanner(brawlerDomain(), &mockScriptCaller{returnVal: lv}, "pit")
		actions, err := planner.Plan(arenaState())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if actions == nil {
			rt.Fatal("Plan must return non-nil slice")
		}
	})
}
