// Package client plays a session against a running server
package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	gamev1 "github.com/KirkDiggler/rpg-dungeon/internal/handlers/game/v1"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/terminal"
)

var (
	// Connection flags
	serverAddr string
	playerID   string
	secret     string
	issuer     string
	tokenTTL   time.Duration
)

// ClientCmd streams a session from a server to this terminal
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Play on a running server",
	Long: `Connect to a dungeon server and play in this terminal.

With --secret the client signs its own token, which matches a server
running with auth enabled and the same secret. Without it the player
id is sent in the x-player-id header.`,
	RunE: runClient,
}

func init() {
	ClientCmd.Flags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.Flags().StringVar(&playerID, "player", "", "player id")
	ClientCmd.Flags().StringVar(&secret, "secret", "", "token signing secret")
	ClientCmd.Flags().StringVar(&issuer, "issuer", "rpg-dungeon", "token issuer")
	ClientCmd.Flags().DurationVar(&tokenTTL, "token-ttl", time.Hour, "token lifetime")
	_ = ClientCmd.MarkFlagRequired("player")
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	return conn, nil
}

func runClient(cmd *cobra.Command, _ []string) error {
	authn, err := gamev1.NewAuthenticator(&gamev1.AuthConfig{
		Enabled: secret != "",
		Secret:  secret,
		Issuer:  issuer,
		TTL:     tokenTTL,
	})
	if err != nil {
		return err
	}
	md, err := authn.Credentials(playerID)
	if err != nil {
		return err
	}

	conn, err := createConnection()
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx := metadata.NewOutgoingContext(cmd.Context(), md)
	stream, err := gamev1.NewGameServiceClient(conn).Play(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	out := cmd.OutOrStdout()
	renderer := terminal.NewRenderer(out)
	end, err := gamev1.PlayRemote(ctx, stream, terminal.NewDecider(cmd.InOrStdin(), renderer), renderer)
	if err != nil {
		return fmt.Errorf("session failed: %w", err)
	}

	if end.Suspended {
		fmt.Fprintln(out, "Your fight is saved. It picks up where you left it next time.")
	}
	fmt.Fprintf(out, "Session %s closed.\n", end.SessionID)
	return nil
}
