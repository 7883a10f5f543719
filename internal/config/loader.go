// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` file, read into the process environment.
  2. `<root>/conf/stockroom.yaml`.
  3. Environment variables prefixed `STOCKROOM_`, where `__` maps to “.”
     (e.g., `STOCKROOM_DATABASE__DSN → database.dsn`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaulted, validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.

Secrets
-------
`database.password` may hold a `vault:<mount>/<path>#<key>` reference.
`Load()` leaves it untouched; the caller resolves it with
`ResolveSecrets()` once a Vault client exists.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read.
  • ERROR spans – YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so boot issues surface
    even before the file logger is installed.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix = "STOCKROOM_"
	fileName  = "stockroom.yaml"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves STOCKROOM_ROOT or climbs directories until
// conf/stockroom.yaml is found.  Falls back to the executable's parent when
// it lives in bin/.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", fileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root directory and loads from it.
func Load() (*Config, error) {
	return LoadFrom(rootDir())
}

// LoadFrom reads .env, YAML, and env overrides under root, validates, and
// caches the result.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", fileName)
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// STOCKROOM_DATABASE__DSN → database.dsn
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.applyDefaults()
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"driver", cfg.Database.Driver,
		"vault_password", cfg.Database.NeedsVault(),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }
