// internal/vault/vault.go
//
// Vault client used to resolve secret references in configuration.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK in a concurrency-safe client with
//     background token renewal, a KV-v2 getter, and a per-key TTL cache.
//   - `Resolve` satisfies config.SecretResolver, so a DSN password written
//     as `vault:secret/stockroom#db_password` is fetched once at boot.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                          // during boot.
//  2. err = config.ResolveSecrets(ctx, cfg, cli)          // before Open.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// DefaultTTL is how long Resolve caches a secret.
const DefaultTTL = 5 * time.Minute

//
// SECTION 1.  Client
//

// Client is safe for concurrent use.  Zero value is invalid; use New.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the environment and starts token
// renewal, which stops when ctx is cancelled.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{api: apiCli, cache: make(map[string]cached)}
	go c.renewLoop(ctx)
	return c, nil
}

// Resolve fetches the secret named by ref, written `<mount>/<path>#<key>`.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, err := splitRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, path, key, DefaultTTL)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}
	canonical := secretPath + "#" + key

	if ttl > 0 {
		if v, ok := c.lookup(canonical); ok {
			return v, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}
	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

func (c *Client) lookup(canonical string) (string, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	cv, ok := c.cache[canonical]
	if !ok || !time.Now().Before(cv.exp) {
		return "", false
	}
	return cv.val, true
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew-self failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, sleeping 1h")
			sleep(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
			Grace:  15 * time.Second,
		})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, watcher)
		sleep(ctx, 15*time.Second)
	}
}

// watch blocks until the watcher stops or ctx ends.
func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				zap.S().Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				zap.S().Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

// splitRef splits `secret/stockroom#db_password` into path and key.
func splitRef(ref string) (path, key string, err error) {
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("malformed vault reference %q, want <mount>/<path>#<key>", ref)
	}
	return ref[:i], ref[i+1:], nil
}

func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
