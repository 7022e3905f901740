package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/terminal"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/lease"
)

var playerName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long:  `Play a session in this terminal against the configured storage. Progress is saved after every step.`,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playerName, "player", "", "player id (default: current user)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// log lines go to stderr in the pretty format so they stay out of the game text
	cfg.Log.Format = config.LogFormatPretty
	logger := newLogger(cfg.Log, os.Stderr)

	playerID := playerName
	if playerID == "" {
		u, err := user.Current()
		if err != nil {
			return fmt.Errorf("no --player given and the current user is unknown: %w", err)
		}
		playerID = u.Username
	}

	ctx := cmd.Context()
	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer st.close()

	holder := "terminal-" + playerID
	if _, err := st.leases.Acquire(ctx, lease.AcquireInput{
		PlayerID: playerID,
		Holder:   holder,
		TTL:      cfg.Session.LeaseTTL,
	}); err != nil {
		return fmt.Errorf("player %s is already playing: %w", playerID, err)
	}
	defer func() {
		_, _ = st.leases.Release(context.WithoutCancel(ctx), lease.ReleaseInput{PlayerID: playerID, Holder: holder})
	}()
	renewCtx, stopRenew := context.WithCancel(ctx)
	defer stopRenew()
	go keepLease(renewCtx, st.leases, lease.RenewInput{
		PlayerID: playerID,
		Holder:   holder,
		TTL:      cfg.Session.LeaseTTL,
	}, logger)

	rng, err := newRandom(cfg.Game)
	if err != nil {
		return fmt.Errorf("failed to create random source: %w", err)
	}
	gameService, err := game.NewOrchestrator(&game.Config{Players: st.players, Random: rng})
	if err != nil {
		return fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	out := cmd.OutOrStdout()
	renderer := terminal.NewRenderer(out)
	bus := events.NewBus()
	if cfg.Log.Level == "debug" {
		rpgtoolkit.SubscribeAudit(bus, logger)
	}

	result, err := gameService.Play(ctx, &game.PlayInput{
		PlayerID: playerID,
		Decider:  terminal.NewDecider(cmd.InOrStdin(), renderer),
		Notifier: publishTo(bus, renderer, logger),
	})
	if err != nil {
		return err
	}

	if result.Suspended {
		fmt.Fprintln(out, "Your fight is saved. It picks up where you left it next time.")
	}
	fmt.Fprintf(out, "Farewell, %s.\n", playerID)
	return nil
}

// keepLease renews a lease until ctx ends
func keepLease(ctx context.Context, leases lease.Repository, input lease.RenewInput, logger *slog.Logger) {
	ticker := time.NewTicker(input.TTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := leases.Renew(ctx, input); err != nil && ctx.Err() == nil {
				logger.Warn("Failed to renew session lease", "error", err)
			}
		}
	}
}
