// cmd/stockroom/main.go
//
// stockroom – product inventory CLI and admin server.
//
// Boot sequence
// -------------
//
//  1. Load config (conf/.env → conf/stockroom.yaml → STOCKROOM_* env).
//
//  2. Start the daily rotating logger (tees to stderr when log.tee is set
//     or stderr is a TTY).
//
//  3. Resolve `vault:` secrets when database.password needs it.
//
//  4. Open and ping the pool with the configured limits and retries.
//
//  5. Dispatch the sub-command (`product …` or `serve`).
//
// Exit status is 1 on any error; the error is printed once by cobra.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/yanizio/stockroom/internal/config"
	"github.com/yanizio/stockroom/internal/database"
	"github.com/yanizio/stockroom/internal/logger"
	"github.com/yanizio/stockroom/internal/vault"
)

// app carries what every sub-command needs once bootstrap has run.
type app struct {
	cfg *config.Config
	db  *sqlx.DB

	ownsDB bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "stockroom",
		Short:         "Manage the product inventory table",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.db != nil {
				return nil
			}
			return a.bootstrap(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.AddCommand(newProductCmd(a), newServeCmd(a))
	return root
}

// bootstrap runs steps 1–4 of the boot sequence.
func (a *app) bootstrap(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.New(cfg.Paths.Root, cfg.Log.Tee || runningInTTY(), cfg.Log.Level); err != nil {
		log.Printf("start logger: %v", err)
		return err
	}

	if cfg.Database.NeedsVault() {
		vc, err := vault.New(ctx)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		if err := config.ResolveSecrets(ctx, cfg, vc); err != nil {
			return err
		}
	}

	db, err := database.OpenWithOptions(ctx, cfg.Database.Driver, cfg.Database.ResolvedDSN(), database.Options{
		MaxOpenConns:    cfg.Database.MaxOpen,
		MaxIdleConns:    cfg.Database.MaxIdle,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Retries:         cfg.Database.ConnectRetries,
		RetryBackoff:    cfg.Database.ConnectBackoff,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a.cfg, a.db, a.ownsDB = cfg, db, true
	return nil
}

func (a *app) close() {
	if a.ownsDB && a.db != nil {
		_ = a.db.Close()
	}
}

// runningInTTY returns true when stderr is a character device.
func runningInTTY() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
