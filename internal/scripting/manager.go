package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalNamespace is the reserved key for shared scripts loaded via
// LoadGlobal. CallHook falls back to this VM when no namespace VM is found.
const GlobalNamespace = "__global__"

// Combatant roles understood by the engine.* callbacks.
const (
	RoleAttacker = "attacker"
	RoleDefender = "defender"
)

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	ID     string
	Name   string
	HP     int
	MaxHP  int
	AC     int
	Player bool
}

// vm is one loaded namespace.
type vm struct {
	L      *lua.LState
	cancel func()
	limit  int
}

// Manager owns one sandboxed LState per namespace and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all loads complete. Each
// namespace's LState is single-threaded; the per-namespace lock serializes
// calls into the same VM while different namespaces run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	locks  map[string]*sync.Mutex
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetCombatant func(role string) *CombatantInfo
	HasStatus    func(role, statusID string) bool
	ApplyStatus  func(role, statusID string, degree, turns int) bool
	ApplyDamage  func(role string, amount int, element string) (int, error)
	Heal         func(role string, amount int) bool
	Say          func(msg string)
	// Random returns a value in [0, n). nil makes every roll 0.
	Random func(n int) int
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no namespaces loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		locks:  make(map[string]*sync.Mutex),
		logger: logger,
	}
}

// LoadNamespace creates a sandboxed VM for ns, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
// Loading an existing namespace replaces its VM.
//
// Precondition: ns must be non-empty; scriptDir must be a readable directory.
// Postcondition: The VM is registered; returns error on Lua load failure.
func (m *Manager) LoadNamespace(ns, scriptDir string, instLimit int) error {
	if ns == "" {
		return fmt.Errorf("scripting: namespace must not be empty")
	}
	return m.loadInto(ns, scriptDir, instLimit)
}

// LoadGlobal creates the GlobalNamespace VM for weapon scripts shared by
// every arena.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalNamespace, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.cancel()
		old.L.Close()
	}
	m.vms[key] = &vm{L: L, cancel: cancel, limit: instLimit}
	if _, ok := m.locks[key]; !ok {
		m.locks[key] = &sync.Mutex{}
	}
	m.mu.Unlock()

	m.logger.Debug("scripting: namespace loaded",
		zap.String("namespace", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// resolve returns the VM serving ns, falling back to the global VM.
func (m *Manager) resolve(ns string) (*vm, *sync.Mutex, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[ns]; ok {
		return v, m.locks[ns], ns
	}
	if v, ok := m.vms[GlobalNamespace]; ok {
		return v, m.locks[GlobalNamespace], GlobalNamespace
	}
	return nil, nil, ""
}

// HasHook reports whether hook is a Lua function visible from ns, including
// the global fallback.
func (m *Manager) HasHook(ns, hook string) bool {
	for _, key := range []string{ns, GlobalNamespace} {
		m.mu.RLock()
		v, ok := m.vms[key]
		mu := m.locks[key]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		mu.Lock()
		defined := v.L.GetGlobal(hook).Type() == lua.LTFunction
		mu.Unlock()
		if defined {
			return true
		}
	}
	return false
}

// CallHook calls the named Lua global function in ns's VM. If the namespace
// has no VM, or its VM does not define the hook, the global VM is tried.
// Returns (LNil, nil) if the hook is not defined anywhere. Lua runtime
// errors, including an exhausted instruction budget, are logged at Warn
// level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(ns, hook string, args ...lua.LValue) (lua.LValue, error) {
	v, mu, key := m.resolve(ns)
	if v == nil {
		m.logger.Info("scripting: no VM for namespace",
			zap.String("namespace", ns),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	mu.Lock()
	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction && key != GlobalNamespace {
		mu.Unlock()
		return m.CallHook(GlobalNamespace, hook, args...)
	}
	defer mu.Unlock()
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	// Every call gets a fresh instruction budget.
	v.cancel()
	v.cancel = arm(v.L, v.limit)

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("namespace", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every loaded VM.
//
// Postcondition: The Manager has no namespaces; CallHook returns LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.cancel()
		v.L.Close()
		delete(m.vms, key)
	}
}
