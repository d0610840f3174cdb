package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carjai/marketplace-client/internal/app"
	"github.com/carjai/marketplace-client/internal/pkg/config"
	"github.com/carjai/marketplace-client/pkg/logger"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "carjai",
		Short: "Command-line client for the CarJai marketplace",
		Long: `carjai talks to the CarJai marketplace API the way the web client does.

A buyer/seller session and an admin session share one cookie jar. Signing
in as one signs the other out, and the jar is saved between runs under
the state directory (CARJAI_STATE_DIR).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		signinCmd(),
		signupCmd(),
		signoutCmd(),
		whoamiCmd(),
		refreshCmd(),
		navigateCmd(),
		adminCmd(),
		carsCmd(),
		favoritesCmd(),
		recentCmd(),
		compareCmd(),
		profileCmd(),
		referenceCmd(),
		ocrCmd(),
		mockServerCmd(),
		versionCmd(),
	)

	return rootCmd
}

// withApp builds the client, restores both sessions, runs fn and saves the
// session state again, whatever fn returned.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	a.Start(ctx)

	runErr := fn(ctx, a)
	if err := a.Close(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("failed to save client state")
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carjai %s (%s)\n", version, commit)
		},
	}
}
