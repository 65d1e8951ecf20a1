package registry

import (
	"fmt"
	"os"

	"github.com/coreos/go-semver/semver"
	lua "github.com/yuin/gopher-lua"

	"github.com/opswitch/opswitch/internal/platform"
)

// LoadLuaFile extends the registry with user-defined tools from a Lua
// catalog file. The chunk runs in a sandboxed VM with a read-only platform
// table injected, and must return an array of tool tables:
//
//	return {
//	  {
//	    name = "helmfile",
//	    url = "https://github.com/helmfile/helmfile/releases/download/v{version}/helmfile_{os}_{arch}",
//	    content_type = "raw",
//	    repo = "helmfile/helmfile",
//	    prefix = "v",
//	    prefix_above = "0.150.0",
//	  },
//	}
//
// A missing file is not an error; a malformed file is a *ConfigError.
func (r *Registry) LoadLuaFile(path string, info *platform.Info) error {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read tool catalog %s: %w", path, err)
	}
	return r.LoadLua(string(code), info)
}

// LoadLua extends the registry from Lua source. Split out from LoadLuaFile
// for tests and in-memory catalogs.
func (r *Registry) LoadLua(code string, info *platform.Info) error {
	L := newSandboxedVM()
	defer L.Close()

	if info != nil {
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		return &ConfigError{Detail: fmt.Sprintf("Lua error: %v", err)}
	}

	ret := L.Get(-1)
	table, ok := ret.(*lua.LTable)
	if !ok {
		return &ConfigError{Detail: fmt.Sprintf("catalog chunk must return a table, got %s", ret.Type())}
	}

	var loadErr error
	table.ForEach(func(_, value lua.LValue) {
		if loadErr != nil {
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			loadErr = &ConfigError{Detail: fmt.Sprintf("catalog entry must be a table, got %s", value.Type())}
			return
		}
		spec, err := specFromLua(entry)
		if err != nil {
			loadErr = err
			return
		}
		loadErr = r.Add(spec)
	})

	return loadErr
}

// specFromLua extracts one ToolSpec from a Lua catalog entry.
func specFromLua(entry *lua.LTable) (ToolSpec, error) {
	name := luaString(entry, "name")

	contentType, err := ParseContentType(luaString(entry, "content_type"))
	if err != nil {
		return ToolSpec{}, &ConfigError{Tool: name, Detail: err.Error()}
	}

	spec := ToolSpec{
		Name:        name,
		URLTemplate: luaString(entry, "url"),
		ContentType: contentType,
		Repo:        luaString(entry, "repo"),
	}

	prefix := luaString(entry, "prefix")
	above := luaString(entry, "prefix_above")
	if prefix != "" {
		rule := PrefixRule{Prefix: prefix}
		if above != "" {
			v, err := semver.NewVersion(above)
			if err != nil {
				return ToolSpec{}, &ConfigError{Tool: name, Detail: fmt.Sprintf("invalid prefix_above %q: %v", above, err)}
			}
			rule.Above = *v
		}
		spec.Prefix = rule
	} else if above != "" {
		return ToolSpec{}, &ConfigError{Tool: name, Detail: "prefix_above set without prefix"}
	}

	return spec, nil
}

// luaString reads a string field from an entry table, returning "" for nil.
func luaString(entry *lua.LTable, field string) string {
	v := entry.RawGetString(field)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// sandboxLuaVM configures a Lua VM to run in a restricted sandbox.
// Catalog files are declarative: no filesystem access, no process control,
// no module loading. Safe libraries (string, table, math) stay available.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
