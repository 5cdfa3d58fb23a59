// Package config holds the settings of a glextl run. Settings come from the
// built-in defaults, an optional TOML file, the environment and the command
// line, each overriding the one before.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ardanlabs/glextl/generator"
)

// FileName is the config file looked up in the source directory when no
// explicit file is given.
const FileName = "glextl.toml"

// Config describes one generator run. Relative paths are resolved against
// the source directory.
type Config struct {
	// Input is the Khronos glext.h to scan.
	Input string `toml:"input"`

	// Header is where the generated loader header is written.
	Header string `toml:"header"`

	// Example is where the example implementation file is written.
	Example string `toml:"example"`

	Names struct {
		Prefix              string `toml:"prefix"`
		HeaderGuard         string `toml:"header_guard"`
		ImplementationMacro string `toml:"implementation_macro"`
		ImplementationGuard string `toml:"implementation_guard"`
		HeaderInclude       string `toml:"header_include"`
	} `toml:"names"`

	Logging struct {
		Debug bool `toml:"debug"`
	} `toml:"logging"`
}

// Default returns the layout the tool has always used: it reads
// include/GL/glext.h and writes include/GL/glextl.h next to it.
func Default() Config {
	var c Config
	c.Input = filepath.Join("include", "GL", "glext.h")
	c.Header = filepath.Join("include", "GL", "glextl.h")
	c.Example = "glextl_impl.cpp"

	opts := generator.DefaultOptions()
	c.Names.Prefix = opts.Prefix
	c.Names.HeaderGuard = opts.HeaderGuard
	c.Names.ImplementationMacro = opts.ImplementationMacro
	c.Names.ImplementationGuard = opts.ImplementationGuard
	c.Names.HeaderInclude = opts.HeaderInclude
	return c
}

// Load returns the defaults overridden by the TOML file at path and then by
// the environment. An empty path only applies the environment. A missing
// file is an error unless optional is set.
func Load(path string, optional bool) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && optional:
		case err != nil:
			return c, fmt.Errorf("reading config: %w", err)
		default:
			if err := toml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	c.applyEnv()
	return c, nil
}

// Set via GLEXTL_DEBUG in the environment
func (c *Config) applyEnv() {
	if s := strings.TrimSpace(os.Getenv("GLEXTL_DEBUG")); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			c.Logging.Debug = b
		} else {
			// any other non-empty value turns debugging on
			c.Logging.Debug = true
		}
	}
}

// Resolve makes the input and output paths absolute relative to dir.
func (c Config) Resolve(dir string) Config {
	c.Input = resolve(dir, c.Input)
	c.Header = resolve(dir, c.Header)
	c.Example = resolve(dir, c.Example)
	return c
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Options returns the generator options named by the config.
func (c Config) Options() generator.Options {
	return generator.Options{
		Prefix:              c.Names.Prefix,
		HeaderGuard:         c.Names.HeaderGuard,
		ImplementationMacro: c.Names.ImplementationMacro,
		ImplementationGuard: c.Names.ImplementationGuard,
		HeaderInclude:       c.Names.HeaderInclude,
	}
}
