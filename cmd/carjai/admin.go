package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carjai/marketplace-client/internal/app"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/infrastructure/backend"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console commands",
		Long: `Admin console commands. Admin sign-in only succeeds from a whitelisted
IP address, and signing in signs out any buyer/seller session.`,
	}

	cmd.AddCommand(
		adminSigninCmd(),
		adminSignoutCmd(),
		adminWhoamiCmd(),
		whitelistCmd(),
		adminUsersCmd(),
		adminReportsCmd(),
		marketPriceCmd(),
		dashboardCmd(),
	)

	return cmd
}

func adminSigninCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in to the admin console",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				err := a.Admins.Signin(ctx, domain.AdminSigninRequest{Username: args[0], Password: password})
				if errors.Is(err, domain.ErrForbidden) {
					return fmt.Errorf("this IP address is not whitelisted for %s: %w", args[0], err)
				}
				if err != nil {
					return formError(a.Admins.Snapshot().Error, err)
				}
				return reportIdentity(cmd, a)
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")

	return cmd
}

func adminSignoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out of the admin console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Admins.Signout(ctx)
				success(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func adminWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the admin and its session metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				s := a.Admins.Snapshot()
				if !s.Authenticated {
					return errNotAdmin
				}
				if s.Session != nil && s.Session.IsExpired(time.Now()) {
					warn(cmd.ErrOrStderr(), "Session expired at %s", s.Session.ExpiresAt.Format(time.RFC3339))
				}
				return printJSON(cmd.OutOrStdout(), a.Admins.Identity())
			})
		},
	}
}

var errNotAdmin = fmt.Errorf("not signed in as admin: %w", domain.ErrUnauthorized)

// withAdmin runs fn only when an admin session is active.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if !a.Admins.Snapshot().Authenticated {
			return errNotAdmin
		}
		return fn(ctx, a)
	})
}

func whitelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "whitelist",
		Aliases: []string{"ip"},
		Short:   "Manage the IP addresses allowed to use the admin console",
	}

	var description string
	add := &cobra.Command{
		Use:   "add <ip-or-cidr>",
		Short: "Whitelist an address or CIDR range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Admins.AddIP(ctx, args[0], description); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Whitelisted %s", args[0])
				return nil
			})
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "What the entry is for")

	var force bool
	remove := &cobra.Command{
		Use:   "remove <ip-or-cidr>",
		Short: "Remove a whitelist entry",
		Long: `Remove a whitelist entry. An entry covering the current session's IP
is refused unless --force is given, since removing it locks this client out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
				err := a.Admins.RemoveIP(ctx, args[0], force)
				if errors.Is(err, domain.ErrWouldBlockSession) {
					return fmt.Errorf("%w (use --force to remove it anyway)", err)
				}
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Removed %s", args[0])
				return nil
			})
		},
	}
	remove.Flags().BoolVar(&force, "force", false, "Remove even if it blocks the current session")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List whitelist entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					a.Admins.FetchIPWhitelist(ctx)
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tIP\tDESCRIPTION\tCREATED")
					for _, e := range a.Admins.Snapshot().Whitelist {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.IPAddress, e.Description, e.CreatedAt.Format(time.DateOnly))
					}
					return w.Flush()
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "check <ip-or-cidr>",
			Short: "Report whether removing an entry would block this session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					return printJSON(cmd.OutOrStdout(), a.Admins.CheckRemoval(ctx, args[0]))
				})
			},
		},
		remove,
	)

	return cmd
}

func adminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage marketplace users",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					users, total, err := a.Client.Admin().Users(ctx)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tROLE")
					for _, u := range users {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Name, u.Role)
					}
					fmt.Fprintf(w, "\t\t\ttotal %d\n", total)
					return w.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "ban <user-id>",
			Short: "Ban a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := intArg(args[0], "user id")
				if err != nil {
					return err
				}
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					if err := a.Client.Admin().BanUser(ctx, id); err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "Banned user %d", id)
					return nil
				})
			},
		},
	)

	return cmd
}

func adminReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Moderate user reports",
	}

	var filter backend.ReportFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
				reports, _, err := a.Client.Admin().Reports(ctx, filter)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), reports)
			})
		},
	}
	list.Flags().StringVar(&filter.Type, "type", "", "Report type (car or seller)")
	list.Flags().StringVar(&filter.Status, "status", "", "Report status")

	moderate := func(use, short, done string, call func(*backend.Admin, context.Context, int) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <report-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := intArg(args[0], "report id")
				if err != nil {
					return err
				}
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					if err := call(a.Client.Admin(), ctx, id); err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "%s report %d", done, id)
					return nil
				})
			},
		}
	}

	cmd.AddCommand(
		list,
		moderate("resolve", "Mark a report resolved", "Resolved", (*backend.Admin).ResolveReport),
		moderate("dismiss", "Dismiss a report", "Dismissed", (*backend.Admin).DismissReport),
	)

	return cmd
}

func marketPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market-price",
		Short: "Manage reference market prices",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List imported market prices",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					prices, err := a.Client.Admin().MarketPrices(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), prices)
				})
			},
		},
		&cobra.Command{
			Use:   "import <file.pdf>",
			Short: "Import a market price PDF",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
					res, err := a.Client.Admin().ImportMarketPrices(ctx, filepath.Base(args[0]), f)
					if err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "Imported %d records (%d new, %d updated)", res.TotalRecords, res.InsertedCount, res.UpdatedCount)
					return nil
				})
			},
		},
	)

	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show marketplace statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Client.Admin().DashboardStats(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func intArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}
