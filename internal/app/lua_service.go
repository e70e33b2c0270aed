package app

import (
	"github.com/rs/zerolog/log"

	luart "github.com/dokzlo13/stripd/internal/lua"
	"github.com/dokzlo13/stripd/internal/lua/modules"
)

// LuaService runs the optional boot script.
type LuaService struct {
	script  string
	baseDir string
	Runtime *luart.Runtime
}

// NewLuaService creates a new LuaService. An empty script disables it.
func NewLuaService(script, baseDir string, exec modules.Executor) *LuaService {
	s := &LuaService{script: script, baseDir: baseDir}
	if script != "" {
		s.Runtime = luart.NewRuntime(exec)
	}
	return s
}

// RunBootScript executes the script. It must run on the loop goroutine,
// since the script drives the device directly. Script errors are logged and
// leave the restored state in place.
func (s *LuaService) RunBootScript() {
	if s.Runtime == nil {
		return
	}
	if err := s.Runtime.LoadScript(s.script, s.baseDir); err != nil {
		log.Error().Err(err).Str("script", s.script).Msg("Boot script failed")
	}
}

// Close closes the Lua runtime.
func (s *LuaService) Close() {
	if s.Runtime != nil {
		s.Runtime.Close()
	}
}
