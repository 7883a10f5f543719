// internal/config/model.go
//
// Typed configuration model for stockroom.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`; Koanf ignores `yaml` tags.
//   • Durations accept Go syntax (`30m`, `500ms`).
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import (
	"strings"
	"time"
)

//
// Database section
//

// Database describes the one pool the entity records run on.
//
// `DSN` may carry a single `%s` verb where the password goes, so the
// template stays in YAML while the secret (`Password`) comes from the
// environment or Vault.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=mysql postgres sqlite"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	Password        string        `koanf:"password"`
	MaxOpen         int           `koanf:"max_open"          validate:"gte=0"`
	MaxIdle         int           `koanf:"max_idle"          validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnectRetries  int           `koanf:"connect_retries"   validate:"gte=0,lte=20"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff"   validate:"gte=0"`
}

// ResolvedDSN substitutes Password into the DSN template.  Other `%`
// sequences, such as URL escapes, pass through untouched.  A DSN without a
// `%s` verb is returned as is.
func (d Database) ResolvedDSN() string {
	if strings.Count(d.DSN, "%s") != 1 {
		return d.DSN
	}
	return strings.Replace(d.DSN, "%s", d.Password, 1)
}

// NeedsVault reports whether Password is still an unresolved Vault
// reference.
func (d Database) NeedsVault() bool {
	return strings.HasPrefix(d.Password, vaultPrefix)
}

//
// Log section
//

type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Tee   bool   `koanf:"tee"`
}

//
// Admin section
//

// Admin configures the `stockroom serve` HTTP listener.
type Admin struct {
	ListenAddr string `koanf:"listen_addr" validate:"hostname_port"`
}

//
// Paths section (runtime only)
//

type Paths struct {
	Root string // STOCKROOM_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
	Admin    Admin    `koanf:"admin"`
	Paths    Paths    `koanf:"-"`
}

func (c *Config) applyDefaults() {
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.ConnectBackoff == 0 {
		c.Database.ConnectBackoff = 500 * time.Millisecond
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Admin.ListenAddr == "" {
		c.Admin.ListenAddr = "127.0.0.1:9090"
	}
}
