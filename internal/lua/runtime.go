// Package lua runs the optional boot script that configures the strip on
// startup.
package lua

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/stripd/internal/lua/modules"
)

// Runtime wraps a Lua VM with the strip and log modules preloaded. It is
// not safe for concurrent use; it runs on the loop goroutine.
type Runtime struct {
	L *lua.LState
}

// NewRuntime creates a runtime whose strip module runs commands through exec.
func NewRuntime(exec modules.Executor) *Runtime {
	L := lua.NewState()

	L.PreloadModule("log", modules.NewLogModule().Loader)
	L.PreloadModule("strip", modules.NewStripModule(exec).Loader)

	return &Runtime{L: L}
}

// Close closes the Lua state.
func (r *Runtime) Close() {
	r.L.Close()
}

// LoadScript executes the script at path. Relative paths that do not exist
// are resolved against baseDir.
func (r *Runtime) LoadScript(path, baseDir string) error {
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); os.IsNotExist(err) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
	}

	log.Info().Str("path", path).Msg("Loading Lua script")

	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}

	log.Info().Msg("Lua script loaded successfully")
	return nil
}

// DoString executes a chunk of Lua source.
func (r *Runtime) DoString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("failed to execute Lua chunk: %w", err)
	}
	return nil
}
