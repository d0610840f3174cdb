package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/carjai/marketplace-client/internal/api"
	"github.com/carjai/marketplace-client/internal/api/handler"
	"github.com/carjai/marketplace-client/internal/pkg/config"
	"github.com/carjai/marketplace-client/pkg/logger"
)

func mockServerCmd() *cobra.Command {
	var (
		port     string
		adminIPs []string
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory marketplace backend for local development",
		Long: `Run an in-memory backend that speaks the same auth, admin whitelist,
catalog and recent-view endpoints as the real API. The seeded admin can
only sign in from the addresses passed with --admin-ip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.LogLevel == "" {
				cfg.LogLevel = "info"
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
			if port == "" {
				port = cfg.Mock.Port
			}

			store := handler.NewStore(bcrypt.DefaultCost)
			err := api.Seed(store, api.SeedOptions{
				AdminUsername: cfg.Mock.AdminUsername,
				AdminPassword: cfg.Mock.AdminPassword,
				AdminIPs:      adminIPs,
			})
			if err != nil {
				return err
			}

			e := api.NewRouter(api.Options{
				Store:       store,
				JWTSecret:   cfg.Mock.JWTSecret,
				SessionTTL:  24 * time.Hour,
				AdminPrefix: cfg.AdminPrefix,
				Log:         log,
			})

			addr := net.JoinHostPort("", port)
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Strs("admin_ips", adminIPs).Msg("mock backend listening")
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			log.Info().Msg("shutting down mock backend")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default MOCK_PORT)")
	cmd.Flags().StringSliceVar(&adminIPs, "admin-ip", []string{"127.0.0.1", "::1"}, "Addresses or CIDR ranges the seeded admin may sign in from")

	return cmd
}
