package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored player records",
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every stored player record loads",
	Long:  `Load every stored player and list the records that are corrupt or missing. Nothing is modified.`,
	RunE:  runVerify,
}

func init() {
	recordsCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer st.close()

	out, err := player.Verify(ctx, st.players)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Checked %d records in %s storage\n", out.Checked, cfg.Storage.Driver)
	if len(out.Problems) == 0 {
		fmt.Fprintln(w, "No problems found")
		return nil
	}
	for _, p := range out.Problems {
		fmt.Fprintf(w, "  %-8s %s: %v\n", p.Reason, p.ID, p.Err)
	}
	return fmt.Errorf("%d of %d records cannot be loaded", len(out.Problems), out.Checked)
}
