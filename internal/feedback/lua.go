package feedback

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

const luaEntry = "cue"

// LuaPolicy runs a script defining
//
//	function cue(kind, direction, card_id) return haptic, sound end
//
// The interpreter is not goroutine-safe; calls are serialized.
type LuaPolicy struct {
	mu sync.Mutex
	L  *lua.LState
	fn lua.LValue
}

// NewLuaPolicy compiles script and checks that it defines cue.
func NewLuaPolicy(script string) (*LuaPolicy, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.TabLibName, lua.OpenTable},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua %s: %w", lib.name, err)
		}
	}
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("load feedback script: %w", err)
	}
	fn := L.GetGlobal(luaEntry)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("feedback script must define function %q", luaEntry)
	}
	return &LuaPolicy{L: L, fn: fn}, nil
}

// LoadLuaPolicy reads the script at path.
func LoadLuaPolicy(path string) (*LuaPolicy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feedback script: %w", err)
	}
	return NewLuaPolicy(string(b))
}

func (p *LuaPolicy) Cue(ev Event) (Cue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.L.CallByParam(lua.P{Fn: p.fn, NRet: 2, Protect: true},
		lua.LString(ev.Kind), lua.LString(ev.Direction), lua.LString(ev.CardID))
	if err != nil {
		return Cue{}, fmt.Errorf("feedback script: %w", err)
	}
	sound := lua.LVAsString(p.L.Get(-1))
	rawHaptic := lua.LVAsString(p.L.Get(-2))
	p.L.Pop(2)

	h, err := ParseHaptic(rawHaptic)
	if err != nil {
		return Cue{}, fmt.Errorf("feedback script returned %q: %w", rawHaptic, err)
	}
	return Cue{Haptic: h, Sound: sound}, nil
}

func (p *LuaPolicy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}
