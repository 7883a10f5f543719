package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const vaultPrefix = "vault:"

// SecretResolver turns a secret reference (`<mount>/<path>#<key>`) into its
// value.  *vault.Client implements it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ResolveSecrets replaces `vault:` references in cfg with their values.  It
// is a no-op when nothing needs resolving, so r may be nil in that case.
func ResolveSecrets(ctx context.Context, cfg *Config, r SecretResolver) error {
	if !cfg.Database.NeedsVault() {
		return nil
	}
	if r == nil {
		return errors.New("database.password is a vault reference but no resolver is configured")
	}
	ref := strings.TrimPrefix(cfg.Database.Password, vaultPrefix)
	val, err := r.Resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolve database.password: %w", err)
	}
	cfg.Database.Password = val
	return nil
}
