package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L with log, random, combatant,
// status, damage, heal and say entries.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.newLogModule(L))
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"random":        m.luaRandom,
		"one_chance_in": m.luaOneChanceIn,
		"x_chance_in_y": m.luaXChanceInY,
		"combatant":     m.luaCombatant,
		"has_status":    m.luaHasStatus,
		"apply_status":  m.luaApplyStatus,
		"damage":        m.luaDamage,
		"heal":          m.luaHeal,
		"say":           m.luaSay,
	})
	L.SetGlobal("engine", engine)
}

func (m *Manager) newLogModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			log("lua: " + L.CheckString(1))
			return 0
		}
	}
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"debug": level(m.logger.Debug),
		"info":  level(m.logger.Info),
		"warn":  level(m.logger.Warn),
		"error": level(m.logger.Error),
	})
	return mod
}

func (m *Manager) roll(n int) int {
	if n <= 1 || m.Random == nil {
		return 0
	}
	return m.Random(n)
}

// engine.random(n) -> integer in [0, n)
func (m *Manager) luaRandom(L *lua.LState) int {
	L.Push(lua.LNumber(m.roll(L.CheckInt(1))))
	return 1
}

// engine.one_chance_in(n) -> bool
func (m *Manager) luaOneChanceIn(L *lua.LState) int {
	L.Push(lua.LBool(m.roll(L.CheckInt(1)) == 0))
	return 1
}

// engine.x_chance_in_y(x, y) -> bool
func (m *Manager) luaXChanceInY(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	switch {
	case x <= 0:
		L.Push(lua.LFalse)
	case x >= y:
		L.Push(lua.LTrue)
	default:
		L.Push(lua.LBool(m.roll(y) < x))
	}
	return 1
}

// engine.combatant(role) -> table|nil
func (m *Manager) luaCombatant(L *lua.LState) int {
	role := L.CheckString(1)
	if m.GetCombatant == nil {
		L.Push(lua.LNil)
		return 1
	}
	info := m.GetCombatant(role)
	if info == nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("id", lua.LString(info.ID))
	t.RawSetString("name", lua.LString(info.Name))
	t.RawSetString("hp", lua.LNumber(info.HP))
	t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
	t.RawSetString("ac", lua.LNumber(info.AC))
	t.RawSetString("player", lua.LBool(info.Player))
	L.Push(t)
	return 1
}

// engine.has_status(role, id) -> bool
func (m *Manager) luaHasStatus(L *lua.LState) int {
	role, id := L.CheckString(1), L.CheckString(2)
	L.Push(lua.LBool(m.HasStatus != nil && m.HasStatus(role, id)))
	return 1
}

// engine.apply_status(role, id, degree, turns) -> bool
func (m *Manager) luaApplyStatus(L *lua.LState) int {
	role, id := L.CheckString(1), L.CheckString(2)
	degree := L.OptInt(3, 1)
	turns := L.OptInt(4, 0)
	L.Push(lua.LBool(m.ApplyStatus != nil && m.ApplyStatus(role, id, degree, turns)))
	return 1
}

// engine.damage(role, amount, element) -> dealt
func (m *Manager) luaDamage(L *lua.LState) int {
	role := L.CheckString(1)
	amount := L.CheckInt(2)
	element := L.OptString(3, "physical")
	if m.ApplyDamage == nil || amount <= 0 {
		L.Push(lua.LNumber(0))
		return 1
	}
	dealt, err := m.ApplyDamage(role, amount, element)
	if err != nil {
		L.RaiseError("engine.damage: %s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(dealt))
	return 1
}

// engine.heal(role, amount) -> bool
func (m *Manager) luaHeal(L *lua.LState) int {
	role := L.CheckString(1)
	amount := L.CheckInt(2)
	L.Push(lua.LBool(m.Heal != nil && amount > 0 && m.Heal(role, amount)))
	return 1
}

// engine.say(msg)
func (m *Manager) luaSay(L *lua.LState) int {
	msg := L.CheckString(1)
	if m.Say != nil {
		m.Say(msg)
	}
	return 0
}
